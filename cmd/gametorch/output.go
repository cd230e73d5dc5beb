package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/maauso/gametorch/internal/animation"
)

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeRaw prints a server payload as indented JSON, adding a status_label
// next to every integer status field when labels is set.
func writeRaw(w io.Writer, raw json.RawMessage, labels bool) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if labels {
		v = labelStatuses(v)
	}
	return writeJSON(w, v)
}

func labelStatuses(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = labelStatuses(child)
		}
		if n, ok := t["status"].(json.Number); ok {
			if code, err := n.Int64(); err == nil {
				if _, taken := t["status_label"]; !taken {
					t["status_label"] = animation.Status(code).String()
				}
			}
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = labelStatuses(child)
		}
		return t
	default:
		return v
	}
}
