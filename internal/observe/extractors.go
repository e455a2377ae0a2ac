package observe

import (
	json "github.com/goccy/go-json"
)

// outputExtractor probes one known field of a structured tool response.
// Extractors run in order; first success wins. Extend this table per tool
// family rather than branching in the compressor.
type outputExtractor struct {
	name string
	fn   func(map[string]any) (string, bool)
}

var outputExtractors = []outputExtractor{
	{"output", stringKey("output")},
	{"stdout", stringKey("stdout")},
	{"result", stringKey("result")},
	{"content", stringKey("content")},
	{"success", func(m map[string]any) (string, bool) {
		ok, isBool := m["success"].(bool)
		if !isBool {
			return "", false
		}
		if ok {
			return "success", true
		}
		return "failed", true
	}},
}

func stringKey(key string) func(map[string]any) (string, bool) {
	return func(m map[string]any) (string, bool) {
		s, ok := m[key].(string)
		return s, ok && s != ""
	}
}

// normalizeOutput reduces a tool output of unknown shape to a string. A
// plain string passes through; a structured object is probed by the
// extractor table, falling back to a size-capped serialization.
func normalizeOutput(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		for _, ex := range outputExtractors {
			if s, ok := ex.fn(v); ok {
				return s
			}
		}
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return truncate(string(data), 200)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return truncate(string(data), 200)
	}
}
