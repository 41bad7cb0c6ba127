package botbridge

// Version is the release of the bridge reported by the CLI.
const Version = "0.1.0"
