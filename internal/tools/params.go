package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func stringParam(params map[string]any, name string) string {
	switch v := params[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// topKParam reads top_k as sent by a model: a JSON number or a numeric string.
// Out-of-range values are clamped, missing ones fall back to the default.
func topKParam(params map[string]any) int {
	var k int
	switch v := params["top_k"].(type) {
	case float64:
		if !math.IsNaN(v) {
			k = int(v)
		}
	case int:
		k = v
	case string:
		k, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	switch {
	case k <= 0:
		return defaultTopK
	case k > maxTopK:
		return maxTopK
	}
	return k
}
