// Package http holds the request and response values that flow through a
// polling cycle.
//
// The types are plain data carriers: performing the request is the job of the
// host connector. Extraction only needs the raw response payload, while the
// request is kept for log context.
package http
