// Package http contains the chi HTTP handlers for the dataset API. Handlers
// are thin adapters: they parse and validate request input, delegate to the
// service layer and render JSON envelopes or RFC 7807 problem responses.
package http
