package animation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultRecord is the canonical form of an animation_results payload.
// Depending on the backend version the endpoint answers with a single object
// or with an array whose first element is the object of interest.
type ResultRecord struct {
	// ID is the result identifier used to address the artifact endpoint.
	ID ID
	// AnimationID echoes the job identifier when the payload carries it.
	AnimationID ID
	// Status is the reported lifecycle state, StatusUnknown when absent or not an integer.
	Status Status
	// HasStatus is true when the payload carried a status field at all.
	HasStatus bool
}

// DecodeResult normalises an object or array-of-object payload into a
// ResultRecord. Any other shape returns ErrMalformedResponse.
func DecodeResult(raw []byte) (ResultRecord, error) {
	fields, err := firstObject(raw)
	if err != nil {
		return ResultRecord{}, err
	}

	var rec ResultRecord
	if v, ok := fields["id"]; ok {
		if err := json.Unmarshal(v, &rec.ID); err != nil {
			rec.ID = ""
		}
	}
	if v, ok := fields["animation_id"]; ok {
		if err := json.Unmarshal(v, &rec.AnimationID); err != nil {
			rec.AnimationID = ""
		}
	}
	if v, ok := fields["status"]; ok && !isNull(v) {
		rec.HasStatus = true
		var n int64
		if err := json.Unmarshal(v, &n); err == nil {
			rec.Status = Status(n)
		}
	}

	return rec, nil
}

// DecodeAnimationID extracts the animation_id field from a submission or
// regeneration response.
func DecodeAnimationID(raw []byte) (ID, error) {
	fields, err := firstObject(raw)
	if err != nil {
		return "", err
	}

	v, ok := fields["animation_id"]
	if !ok {
		return "", fmt.Errorf("%w: animation_id missing from response", ErrMalformedResponse)
	}

	var id ID
	if err := json.Unmarshal(v, &id); err != nil || id.IsZero() {
		return "", fmt.Errorf("%w: animation_id is not an identifier", ErrMalformedResponse)
	}
	return id, nil
}

// firstObject returns the fields of a JSON object, or of the first element
// of a JSON array of objects.
func firstObject(raw []byte) (map[string]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: empty array", ErrMalformedResponse)
		}
		raw = bytes.TrimSpace(items[0])
	}

	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return fields, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
