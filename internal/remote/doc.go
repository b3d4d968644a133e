// Package remote is the typed HTTP client for the curation service.
//
// Every method builds a URL from the configured base address, attaches the
// standard headers (JSON content negotiation, optional bearer token, request
// ID, user agent), and converts any non-2xx response into an *Error carrying
// the status code and decoded payload. Transport failures surface as an
// *Error with status 0. IsConnectivity classifies the errors that should send
// a session into mock mode.
package remote
