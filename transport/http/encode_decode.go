package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// NewJSONRequest builds a request whose body is the JSON encoding of v. A
// nil v produces an empty body. It is a convenient building block for
// endpoint.BuildRequestFunc implementations.
func NewJSONRequest(ctx context.Context, method, url string, v interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			return nil, TransportError{DomainEncode, err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, TransportError{DomainNewRequest, err}
	}
	if v != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// DecodeJSONResponse decodes a 2xx response body as JSON into an Out. Any
// other status yields a StatusError carrying the body. It satisfies
// endpoint.DecodeOutputFunc.
func DecodeJSONResponse[Out any](_ context.Context, resp *http.Response) (Out, error) {
	var out Out
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return out, StatusError{Code: resp.StatusCode, Body: bytes.TrimSpace(buf.Bytes())}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, TransportError{DomainDecode, err}
	}
	return out, nil
}
