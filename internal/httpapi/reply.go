package httpapi

import "encoding/json"

// V2Reply is the CLIP v2 response envelope: a data array alongside a
// parallel array of error strings.
type V2Reply struct {
	Data   []json.RawMessage `json:"data"`
	Errors []string          `json:"errors"`
}

func v2Data(items ...json.RawMessage) V2Reply {
	return V2Reply{Data: items, Errors: []string{}}
}

func v2Error(msg string) V2Reply {
	return V2Reply{Data: []json.RawMessage{}, Errors: []string{msg}}
}

// V1Success is one entry of a CLIP v1 reply: {"success": {"<prefix>/<name>": <value>}}.
type V1Success struct {
	Success map[string]any `json:"success"`
}

// v1Entries builds one V1Success per touched attribute, keyed by the given
// path prefix (e.g. "/lights/3").
func v1Entries(prefix string, attrs map[string]any) []V1Success {
	out := make([]V1Success, 0, len(attrs))
	for path, val := range attrs {
		out = append(out, V1Success{Success: map[string]any{prefix + "/" + path: val}})
	}
	return out
}
