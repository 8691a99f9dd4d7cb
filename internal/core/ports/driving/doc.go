// Package driving provides interfaces consumed by external actors
// (primary/inbound ports): the CLI commands and the HTTP API.
package driving
