package constants

// Request lines recognised by the connection service.
const (
	RequestRoot  = "GET / HTTP/1.1"
	RequestSleep = "GET /sleep HTTP/1.1"
)

// Status lines written back to clients.
const (
	StatusOK       = "HTTP/1.1 200 OK"
	StatusNotFound = "HTTP/1.1 404 NOT FOUND"
)

// Static pages served from the configured static directory.
const (
	PageHello    = "hello.html"
	PageNotFound = "404.html"
)

// StatusInternalError is returned when a static page cannot be read.
const StatusInternalError = "HTTP/1.1 500 INTERNAL SERVER ERROR"

// MaxRequestLineBytes caps how much of a connection is read while looking for the request line.
const MaxRequestLineBytes = 8 << 10
