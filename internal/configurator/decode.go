package configurator

import "encoding/json"

// decodeInto re-marshals a dynamically-typed value (as produced by YAML/JSON
// unmarshaling into `any`, or a hand-built map) into a concrete struct.
// There is no third-party structural decoder in the retrieved example pack
// (no mapstructure-alike); a JSON round trip is the idiomatic stdlib
// fallback for this one mechanical step.
func decodeInto(in any, out any) error {
	if in == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func toAnySlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil:
		return nil
	default:
		return []any{t}
	}
}
