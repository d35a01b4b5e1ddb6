// Package http provides an HTTP session. Endpoints build *http.Request
// values and decode *http.Response values; the session performs the round
// trip with an *http.Client, applying any RequestFuncs and
// ClientResponseFuncs on the way.
package http
