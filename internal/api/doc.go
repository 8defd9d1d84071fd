// Package api contains the HTTP handlers, request/response models, and error
// mapping for the REST surface. Handlers are thin: they decode and validate
// input, delegate to services, and translate errors to status codes via
// MapErrorToStatusCode. Authentication and tracing live in the middleware
// subpackage; response helpers in shared.
package api
