package http

import (
	"net/url"
	"strings"
)

// Request identifies the call that produced a response.
type Request struct {
	Method      string
	URL         string
	QueryParams map[string]string
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:      method,
		URL:         requestURL,
		QueryParams: make(map[string]string),
	}
}

func (r *Request) SetQueryParam(key, value string) *Request {
	r.QueryParams[key] = value
	return r
}

func (r *Request) BuildURL() string {
	if len(r.QueryParams) == 0 {
		return r.URL
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}

	q := u.Query()
	for k, v := range r.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// String renders the request line for log output. A nil request renders as
// "<none>" so callers never need to guard before logging.
func (r *Request) String() string {
	if r == nil {
		return "<none>"
	}
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = "GET"
	}
	return method + " " + r.BuildURL()
}
