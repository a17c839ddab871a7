// Package transport defines the request/response capability the orchestrators use to reach
// the remote secret service, plus its concrete implementation over the Vault API client.
//
// Orchestrators only see the Transport interface. TLS, authentication, retries for network
// failures and rate limiting belong to the implementation.
package transport

import (
	"context"
	"net/http"
	"net/url"
)

// Methods understood by a Transport. MethodList enumerates child keys under a path.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
	MethodList   = "LIST"
)

// Request is one call against the remote service. Path is relative to the API root,
// e.g. "transit/encrypt/payments".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// Response is the decoded body of a successful call.
type Response struct {
	Data     map[string]any
	Warnings []string
}

// Transport performs a single request/response cycle.
//
// A nil Response with a nil error means the service answered without a body: the target
// is absent for reads and lists, or there was nothing to return for writes. Failures
// reported by the service are returned as *errors.RemoteError.
type Transport interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// Get builds a read request.
func Get(path string) Request {
	return Request{Method: MethodGet, Path: path}
}

// List builds a list request.
func List(path string) Request {
	return Request{Method: MethodList, Path: path}
}

// Post builds a write request with the given body.
func Post(path string, body map[string]any) Request {
	return Request{Method: MethodPost, Path: path, Body: body}
}

// Delete builds a delete request.
func Delete(path string) Request {
	return Request{Method: MethodDelete, Path: path}
}

// WithQuery returns a copy of r with the query parameter key set to value.
func (r Request) WithQuery(key, value string) Request {
	query := url.Values{}
	for k, v := range r.Query {
		query[k] = append([]string(nil), v...)
	}
	query.Set(key, value)
	r.Query = query
	return r
}

// IsWrite reports whether the request may modify remote state.
func (r Request) IsWrite() bool {
	switch r.Method {
	case MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}
