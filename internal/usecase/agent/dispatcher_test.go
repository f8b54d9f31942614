package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domagent "github.com/kailas-cloud/tripagent/internal/domain/agent"
	"github.com/kailas-cloud/tripagent/internal/metrics"
)

func TestDispatch_NoToolOrUnknown(t *testing.T) {
	d := NewDispatcher(newRegistry(t, weatherTool(okHandler("sunny"))), nil)

	if _, ok := d.Dispatch(context.Background(), domagent.NoTool(), "hi"); ok {
		t.Error("expected no dispatch when ShouldUseTool is false")
	}
	inv := domagent.Invocation{ShouldUseTool: true, ToolName: "book_hotel"}
	if _, ok := d.Dispatch(context.Background(), inv, "hi"); ok {
		t.Error("expected no dispatch for unknown tool")
	}
}

func TestDispatch_Success(t *testing.T) {
	var gotParams map[string]any
	var gotMessage string
	h := func(ctx context.Context, params map[string]any) (any, error) {
		gotParams = params
		gotMessage = MessageFromContext(ctx)
		return map[string]any{"temp": 21}, nil
	}
	d := NewDispatcher(newRegistry(t, weatherTool(h)), nil)

	inv := domagent.Invocation{ShouldUseTool: true, ToolName: "get_weather", Parameters: map[string]any{"location": "Rome"}}
	res, ok := d.Dispatch(context.Background(), inv, "weather in Rome?")
	if !ok {
		t.Fatal("expected dispatch")
	}
	if res.Failed() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if gotParams["location"] != "Rome" {
		t.Errorf("handler params = %v", gotParams)
	}
	if gotMessage != "weather in Rome?" {
		t.Errorf("handler message = %q", gotMessage)
	}
}

func TestDispatch_HandlerError(t *testing.T) {
	h := func(context.Context, map[string]any) (any, error) { return nil, errors.New("network down") }
	d := NewDispatcher(newRegistry(t, weatherTool(h)), nil)

	before := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("get_weather", "error"))
	inv := domagent.Invocation{ShouldUseTool: true, ToolName: "get_weather", Parameters: map[string]any{"location": "Rome"}}
	res, ok := d.Dispatch(context.Background(), inv, "weather?")
	if !ok {
		t.Fatal("expected dispatch")
	}
	if res.Error != "network down" {
		t.Errorf("Error = %q, want %q", res.Error, "network down")
	}
	if got := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("get_weather", "error")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestDispatch_EmptyErrorMessageStillFails(t *testing.T) {
	h := func(context.Context, map[string]any) (any, error) { return nil, errors.New("") }
	d := NewDispatcher(newRegistry(t, weatherTool(h)), nil)

	inv := domagent.Invocation{ShouldUseTool: true, ToolName: "get_weather", Parameters: map[string]any{"location": "Rome"}}
	res, ok := d.Dispatch(context.Background(), inv, "weather?")
	if !ok {
		t.Fatal("expected dispatch")
	}
	if !res.Failed() {
		t.Fatalf("expected failed result, got %+v", res)
	}
	if res.Error != "tool get_weather failed" {
		t.Errorf("Error = %q", res.Error)
	}
	if got := Fallback("get_weather", res); !strings.HasPrefix(got, "I tried to use get_weather") {
		t.Errorf("fallback = %q", got)
	}
}

func TestDispatch_HandlerPanic(t *testing.T) {
	h := func(context.Context, map[string]any) (any, error) { panic("nil map write") }
	d := NewDispatcher(newRegistry(t, weatherTool(h)), nil)

	inv := domagent.Invocation{ShouldUseTool: true, ToolName: "get_weather", Parameters: map[string]any{"location": "Rome"}}
	res, ok := d.Dispatch(context.Background(), inv, "weather?")
	if !ok {
		t.Fatal("expected dispatch")
	}
	if !res.Failed() || !strings.Contains(res.Error, "nil map write") {
		t.Errorf("expected panic converted to error, got %+v", res)
	}
}

func TestDispatch_InvalidParamsSkipHandler(t *testing.T) {
	called := false
	h := func(context.Context, map[string]any) (any, error) {
		called = true
		return nil, nil
	}
	d := NewDispatcher(newRegistry(t, weatherTool(h)), nil)

	tests := map[string]map[string]any{
		"missing required": nil,
		"enum violation":   {"location": "Rome", "units": "kelvin"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			inv := domagent.Invocation{ShouldUseTool: true, ToolName: "get_weather", Parameters: params}
			res, ok := d.Dispatch(context.Background(), inv, "weather?")
			if !ok || !res.Failed() {
				t.Fatalf("expected failed dispatch, got %+v ok=%v", res, ok)
			}
		})
	}
	if called {
		t.Error("handler must not run with invalid parameters")
	}
}
