package agent

import "testing"

func TestContext_ToolActive(t *testing.T) {
	all := Context{}
	if !all.ToolActive("get_weather") {
		t.Error("empty ActiveTools should allow every tool")
	}

	limited := Context{ActiveTools: []string{"search_travel_knowledge"}}
	if !limited.ToolActive("search_travel_knowledge") {
		t.Error("expected listed tool to be active")
	}
	if limited.ToolActive("get_weather") {
		t.Error("unlisted tool must be inactive")
	}
}

func TestToolResult_Failed(t *testing.T) {
	if (ToolResult{Payload: map[string]any{"ok": true}}).Failed() {
		t.Error("payload result should not be failed")
	}
	if !(ToolResult{Error: "network down"}).Failed() {
		t.Error("error result should be failed")
	}
}
