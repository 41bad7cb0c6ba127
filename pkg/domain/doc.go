/*
Package domain contains the core models of the bridge.

It defines what crosses the process boundary (the Update read from stdin and the
Response envelope written to stdout), the Actions a plugin can request, and the
error taxonomy that classifies every way an invocation can fail. This package is
kept free of I/O and of the plugin runtime.

# Key Entities

  - Update: The opaque inbound event, decoded once from the request body.
  - Action: One normalized side effect (send, send_dm, send_group).
  - Response: The success or failure envelope, exactly one per invocation.
  - ErrUsage, ErrParse, ErrLoad, ErrContract, ErrHandler: failure classes and their exit codes.
*/
package domain
