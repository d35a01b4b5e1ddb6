package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// ErrorHeader marks a reply as an error. Its value is the error message.
const ErrorHeader = "Error"

// NewJSONRequest builds a message for subject whose data is the JSON
// encoding of v. It is a convenient building block for
// endpoint.BuildRequestFunc implementations.
func NewJSONRequest(subject string, v interface{}) (*nats.Msg, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, TransportError{DomainEncode, err}
	}
	return &nats.Msg{Subject: subject, Header: nats.Header{}, Data: b}, nil
}

// DecodeJSONResponse decodes the reply's data as JSON into an Out. Replies
// carrying ErrorHeader yield a ReplyError. It satisfies
// endpoint.DecodeOutputFunc.
func DecodeJSONResponse[Out any](_ context.Context, msg *nats.Msg) (Out, error) {
	var out Out
	if m := msg.Header.Get(ErrorHeader); m != "" {
		return out, ReplyError{Message: m}
	}
	if err := json.Unmarshal(msg.Data, &out); err != nil {
		return out, TransportError{DomainDecode, err}
	}
	return out, nil
}
