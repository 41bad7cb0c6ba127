/*
Package observability turns bridge lifecycle hooks into Prometheus metrics.

A Metrics value owns its collectors and registers them on the Registerer it is
given, so tests and embedders can use private registries:

	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	b := botbridge.New(botbridge.WithLifecycleHooks(m.Hooks()))

A one-shot process has nothing to scrape it, so Log writes the gathered values
to a logger once the invocation is over.
*/
package observability
