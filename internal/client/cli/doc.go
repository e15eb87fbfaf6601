// Package cli provides the interactive gophquiz command-line client.
//
// It wires configuration, the HTTP API client and a REPL. The user can
// register, log in, browse courses, take a quiz and record a score; the
// session cookie lives only as long as the process.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
