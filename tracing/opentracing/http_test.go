package opentracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"

	"github.com/go-kit/apikit/api"
	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/repository"
	"github.com/go-kit/apikit/session"
	kitot "github.com/go-kit/apikit/tracing/opentracing"
	httptransport "github.com/go-kit/apikit/transport/http"
)

func TestTraceHTTPRequestRoundtrip(t *testing.T) {
	logger := log.NewNopLogger()
	tracer := mocktracer.New()

	// Initialize the ctx with a Span to inject.
	beforeSpan := tracer.StartSpan("to_inject").(*mocktracer.MockSpan)
	defer beforeSpan.Finish()
	beforeCtx := opentracing.ContextWithSpan(context.Background(), beforeSpan)

	toHTTPFunc := kitot.ContextToHTTP(tracer, logger)
	req, _ := http.NewRequest("GET", "http://test.biz/path", nil)
	// Call the RequestFunc.
	afterCtx := toHTTPFunc(beforeCtx, req)

	// The Span should not have changed.
	afterSpan := opentracing.SpanFromContext(afterCtx)
	if beforeSpan != afterSpan {
		t.Errorf("Should not swap in a new span")
	}

	// No spans should have finished yet.
	finishedSpans := tracer.FinishedSpans()
	if want, have := 0, len(finishedSpans); want != have {
		t.Errorf("Want %v span(s), found %v", want, have)
	}

	// Use HTTPToContext to verify that we can join with the trace given a req.
	fromHTTPFunc := kitot.HTTPToContext(tracer, "joined", logger)
	joinCtx := fromHTTPFunc(afterCtx, req)
	joinedSpan := opentracing.SpanFromContext(joinCtx).(*mocktracer.MockSpan)

	joinedContext := joinedSpan.Context().(mocktracer.MockSpanContext)
	beforeContext := beforeSpan.Context().(mocktracer.MockSpanContext)

	if joinedContext.SpanID == beforeContext.SpanID {
		t.Error("SpanID should have changed", joinedContext.SpanID, beforeContext.SpanID)
	}

	// Check that the parent/child relationship is as expected for the joined span.
	if want, have := beforeContext.SpanID, joinedSpan.ParentID; want != have {
		t.Errorf("Want ParentID %d, have %d", want, have)
	}
	if want, have := "joined", joinedSpan.OperationName; want != have {
		t.Errorf("Want %q, have %q", want, have)
	}
}

func TestHTTPToContextNoTrace(t *testing.T) {
	tracer := mocktracer.New()

	req, _ := http.NewRequest("GET", "http://test.biz/path", nil)
	ctx := kitot.HTTPToContext(tracer, "root", log.NewNopLogger())(context.Background(), req)
	span := opentracing.SpanFromContext(ctx).(*mocktracer.MockSpan)

	if want, have := 0, span.ParentID; want != have {
		t.Errorf("Want ParentID %d, have %d", want, have)
	}
}

type echoAPI struct {
	api.Errors
	BaseURL string
}

var get = endpoint.New(
	"get",
	func(ctx context.Context, a echoAPI, path string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, "GET", a.BaseURL+path, nil)
	},
	func(_ context.Context, resp *http.Response) (int, error) { return resp.StatusCode, nil },
)

func TestTraceSessionOverHTTP(t *testing.T) {
	var (
		logger = log.NewNopLogger()
		tracer = mocktracer.New()
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kitot.HTTPToContext(tracer, "server", logger)(r.Context(), r)
		opentracing.SpanFromContext(ctx).Finish()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := httptransport.NewClient(httptransport.ClientBefore(kitot.ContextToHTTP(tracer, logger)))
	traced := session.Chain(kitot.TraceSession[*http.Request, *http.Response](tracer, ""))(client.RoundTrip)
	r := repository.New[echoAPI, *http.Request, *http.Response, *api.Error](
		echoAPI{BaseURL: server.URL},
		session.New(traced),
	)

	code, err := repository.Run(context.Background(), r, get, "/").Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want, have := http.StatusNoContent, code; want != have {
		t.Errorf("want %d, have %d", want, have)
	}

	spans := map[string]*mocktracer.MockSpan{}
	for _, span := range tracer.FinishedSpans() {
		spans[span.OperationName] = span
	}
	clientSpan, serverSpan := spans["get"], spans["server"]
	if clientSpan == nil || serverSpan == nil {
		t.Fatalf("want client and server spans, have %v", spans)
	}
	if want, have := clientSpan.Context().(mocktracer.MockSpanContext).SpanID, serverSpan.ParentID; want != have {
		t.Errorf("Want ParentID %d, have %d", want, have)
	}
	if want, have := "GET", clientSpan.Tag("http.method"); want != have {
		t.Errorf("Want %v, have %v", want, have)
	}
}
