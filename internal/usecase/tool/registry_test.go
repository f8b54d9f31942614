package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
)

func descriptor(name, description string) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        name,
		Description: description,
		Handler: func(context.Context, map[string]any) (any, error) {
			return description, nil
		},
	}
}

func TestRegister_GetAndList(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(descriptor("get_weather", "Weather forecast")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(descriptor("find_travel_tips", "Travel tips")); err != nil {
		t.Fatalf("register: %v", err)
	}

	d, ok := r.Get("get_weather")
	if !ok || d.Description != "Weather forecast" {
		t.Fatalf("unexpected descriptor: %+v, %v", d, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing tool to be absent")
	}

	list := r.List()
	if len(list) != 2 || list[0].Name != "find_travel_tips" || list[1].Name != "get_weather" {
		t.Errorf("expected sorted list, got %v", []string{list[0].Name, list[1].Name})
	}
}

func TestRegister_OverwriteLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRegistry(zap.New(core))

	_ = r.Register(descriptor("get_weather", "v1"))
	_ = r.Register(descriptor("get_weather", "v2"))

	if r.Len() != 1 {
		t.Fatalf("expected 1 tool, got %d", r.Len())
	}
	d, _ := r.Get("get_weather")
	out, _ := d.Handler(context.Background(), nil)
	if out != "v2" {
		t.Errorf("expected latest handler, got %v", out)
	}
	if logs.FilterMessage("Tool replaced").Len() != 1 {
		t.Errorf("expected one replacement log, got %d", logs.FilterMessage("Tool replaced").Len())
	}
}

func TestRegister_Invalid(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(domtool.Descriptor{Name: "no_handler"})
	if !errors.Is(err, domain.ErrInvalidTool) {
		t.Fatalf("expected ErrInvalidTool, got %v", err)
	}
	if err := r.Register(descriptor("", "x")); !errors.Is(err, domain.ErrInvalidTool) {
		t.Fatalf("expected ErrInvalidTool, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}

func TestList_IsSnapshot(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(descriptor("a", "a"))
	list := r.List()
	_ = r.Register(descriptor("b", "b"))
	if len(list) != 1 {
		t.Errorf("snapshot changed: %d", len(list))
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register(descriptor(fmt.Sprintf("tool_%d", i), "x"))
		}()
		go func() {
			defer wg.Done()
			_ = r.List()
			_, _ = r.Get("tool_0")
		}()
	}
	wg.Wait()
	if r.Len() != 20 {
		t.Errorf("expected 20 tools, got %d", r.Len())
	}
}
