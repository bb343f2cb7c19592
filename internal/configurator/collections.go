package configurator

import (
	"fmt"

	"github.com/google/uuid"
)

// normalizeKeyed implements §9 "Dynamic keyed collections": user input
// accepts either an ordered sequence of entries (each a string name or an
// object carrying a "name" field) or a mapping keyed by name. It is
// normalized here to a plain map[string]map[string]any keyed by name,
// inventing `unnamed-<uuid>` for anonymous sequence entries, before the
// caller decodes each value into its concrete struct.
func normalizeKeyed(raw any) (map[string]map[string]any, error) {
	out := map[string]map[string]any{}
	if raw == nil {
		return out, nil
	}
	switch v := raw.(type) {
	case map[string]any:
		for name, val := range v {
			entry, err := asEntryMap(val)
			if err != nil {
				return nil, err
			}
			out[name] = entry
		}
		return out, nil
	case []any:
		for _, item := range v {
			name, entry, err := sequenceItemToEntry(item)
			if err != nil {
				return nil, err
			}
			out[name] = entry
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported collection shape %T", raw)
	}
}

func sequenceItemToEntry(item any) (string, map[string]any, error) {
	switch t := item.(type) {
	case string:
		return t, map[string]any{}, nil
	case map[string]any:
		name, _ := t["name"].(string)
		if name == "" {
			name = "unnamed-" + uuid.NewString()
		}
		entry := map[string]any{}
		for k, v := range t {
			if k == "name" {
				continue
			}
			entry[k] = v
		}
		return name, entry, nil
	default:
		name := "unnamed-" + uuid.NewString()
		entry, err := asEntryMap(item)
		return name, entry, err
	}
}

func asEntryMap(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported entry shape %T", v)
	}
}
