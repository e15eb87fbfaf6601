// Package client talks to the quiz server's JSON API over HTTP. The session
// cookie is kept in a cookie jar, so a logged-in client stays logged in for
// the lifetime of the process.
package client
