package http

import (
	"log/slog"
	"strings"
)

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// NewResponse wraps a raw payload received with the given status code.
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    make(map[string]string),
		Body:       body,
	}
}

// Payload returns the raw response body. A nil response has an empty payload.
func (r *Response) Payload() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Header looks up a header case-insensitively.
func (r *Response) Header(key string) string {
	if r == nil {
		return ""
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// LogValue groups the status, content type and payload size so a response can
// be passed straight to a logger.
func (r *Response) LogValue() slog.Value {
	if r == nil {
		return slog.StringValue("<none>")
	}
	return slog.GroupValue(
		slog.Int("status", r.StatusCode),
		slog.String("content_type", r.ContentType()),
		slog.Int("bytes", len(r.Body)),
	)
}
