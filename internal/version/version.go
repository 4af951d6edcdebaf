// Package version contains information on the current version of the
// program. It is split from the main packages for easy use by both the CLI
// tools and the HTTP service.
package version

// Current is the string representing the current version of the xml module
// and its command-line tools.
const Current = "0.1.0"

// ServerCurrent is the string representing the current version of the HTTP
// parsing service exposed by cmd/xmlhttpd.
const ServerCurrent = "0.1.0"
