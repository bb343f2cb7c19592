package configurator

import (
	"regexp"
	"strings"
)

var bindingNamePattern = regexp.MustCompile(`^\s*(\S+?)(?:\[\s*([^\]]*)\s*\])?\s*->\s*(\S+)\s*$`)

// expandBindings implements §4.1.2.6: normalize to a name-keyed mapping,
// parse `source[ keys ]-> destination` out of each name, union the parsed
// keys with any explicit bindingKey/bindingKeys fields, de-duplicate, and
// fan out into one binding per key when there is more than one.
func expandBindings(raw any) (map[string]map[string]any, error) {
	entries, err := normalizeKeyed(raw)
	if err != nil {
		return nil, err
	}

	out := map[string]map[string]any{}
	for name, entry := range entries {
		source, destination, parsedKeys := parseBindingName(name)
		if source != "" {
			if _, ok := entry["source"]; !ok {
				entry["source"] = source
			}
		}
		if destination != "" {
			if _, ok := entry["destination"]; !ok {
				entry["destination"] = destination
			}
		}

		keys := unionBindingKeys(parsedKeys, entry)
		delete(entry, "bindingKeys")

		switch len(keys) {
		case 0:
			entry["bindingKey"] = ""
			out[name] = entry
		case 1:
			entry["bindingKey"] = keys[0]
			out[name] = entry
		default:
			for _, key := range keys {
				clone := cloneMap(entry)
				clone["bindingKey"] = key
				out[name+":"+key] = clone
			}
		}
	}
	return out, nil
}

func parseBindingName(name string) (source, destination string, keys []string) {
	m := bindingNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", nil
	}
	source = m[1]
	destination = m[3]
	if m[2] != "" {
		keys = splitBindingKeys(m[2])
	}
	return source, destination, keys
}

func splitBindingKeys(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func unionBindingKeys(parsed []string, entry map[string]any) []string {
	seen := map[string]bool{}
	var keys []string
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}
	for _, k := range parsed {
		add(k)
	}
	if bk, ok := entry["bindingKey"]; ok {
		if s, ok := bk.(string); ok {
			add(s)
		}
	}
	if bks, ok := entry["bindingKeys"]; ok {
		for _, item := range toAnySlice(bks) {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return keys
}
