package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser (or terminal client) and the server.
const SessionCookieName = "gophquiz_session"

// RequestIDHeader is echoed back on every response so log lines can be
// matched with client reports.
const RequestIDHeader = "X-Request-ID"
