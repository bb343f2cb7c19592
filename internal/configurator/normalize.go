package configurator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// normalizeRaw walks a dynamically-typed configuration tree (as produced
// by unmarshaling YAML/JSON into map[string]any, or built by hand the same
// way) and rewrites every field whose input shape is ambiguous (§9, §4.1)
// into the single canonical shape internal/configurator's typed decode
// step expects. Besides removing shape ambiguity it fills a few raw-stage
// values: `namespace: true` becomes a UUID, a queue's `replyTo: true`
// becomes a UUID tag, a counter without a `type` takes its own name, and a
// subscription without `encryption` gets every known profile. Baseline
// defaults are applied later.
func normalizeRaw(raw map[string]any) (map[string]any, error) {
	out := cloneMap(raw)

	profiles := map[string]map[string]any{}
	if v, ok := out["encryption"]; ok {
		var err error
		profiles, err = normalizeKeyed(v)
		if err != nil {
			return nil, err
		}
		out["encryption"] = toAnyMap(profiles)
	}

	if v, ok := out["vhosts"]; ok {
		vhosts, err := normalizeKeyed(v)
		if err != nil {
			return nil, err
		}
		for name, vhost := range vhosts {
			if err := normalizeVhost(name, vhost, profiles); err != nil {
				return nil, err
			}
		}
		out["vhosts"] = toAnyMap(vhosts)
	}

	for _, key := range []string{"publications", "subscriptions"} {
		if v, ok := out[key]; ok {
			entries, err := normalizeKeyed(v)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if err := resolveEncryptionField(entry, profiles, key == "subscriptions"); err != nil {
					return nil, err
				}
			}
			out[key] = toAnyMap(entries)
		}
	}

	if v, ok := out["shovels"]; ok {
		shovels, err := normalizeKeyed(v)
		if err != nil {
			return nil, err
		}
		for name, shovel := range shovels {
			parseShovelName(name, shovel)
		}
		out["shovels"] = toAnyMap(shovels)
	}

	if redel, ok := out["redeliveries"].(map[string]any); ok {
		if v, ok := redel["counters"]; ok {
			counters, err := normalizeKeyed(v)
			if err != nil {
				return nil, err
			}
			for name, counter := range counters {
				if _, ok := counter["type"]; !ok {
					counter["type"] = name
				}
			}
			redel["counters"] = toAnyMap(counters)
			out["redeliveries"] = redel
		}
	}

	return out, nil
}

// resolveEncryptionField implements the encryption-profile resolution half
// of §4.1.4. Publications resolve to a single profile object; subscriptions
// resolve to the whole named-profile set (or the one profile they name),
// since a consumer does not know in advance which profile a given message
// was encrypted with (see the Open Question in §9, resolved in DESIGN.md).
func resolveEncryptionField(entry map[string]any, profiles map[string]map[string]any, isSubscription bool) error {
	raw, has := entry["encryption"]
	if !has {
		if isSubscription && len(profiles) > 0 {
			entry["encryption"] = toAnyMap(cloneProfiles(profiles))
		}
		return nil
	}
	switch t := raw.(type) {
	case string:
		profile, ok := profiles[t]
		if !ok {
			return fmt.Errorf("unknown encryption profile: %s", t)
		}
		named := cloneMap(profile)
		named["name"] = t
		if isSubscription {
			entry["encryption"] = map[string]any{t: named}
		} else {
			entry["encryption"] = named
		}
	case map[string]any:
		if isSubscription {
			entry["encryption"] = map[string]any{"": t}
		} else {
			entry["encryption"] = t
		}
	}
	return nil
}

func cloneProfiles(in map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(in))
	for name, p := range in {
		clone := cloneMap(p)
		clone["name"] = name
		out[name] = clone
	}
	return out
}

func normalizeVhost(name string, vhost map[string]any, profiles map[string]map[string]any) error {
	if ns, ok := vhost["namespace"]; ok {
		if b, isBool := ns.(bool); isBool && b {
			vhost["namespace"] = uuid.NewString()
		}
	}

	connections, err := mergeConnectionEntries(vhost)
	if err != nil {
		return err
	}
	delete(vhost, "connection")
	vhost["connections"] = connections

	if exch, ok := vhost["exchanges"]; ok {
		entries, err := normalizeKeyed(exch)
		if err != nil {
			return err
		}
		vhost["exchanges"] = toAnyMap(entries)
	}

	if queues, ok := vhost["queues"]; ok {
		entries, err := normalizeKeyed(queues)
		if err != nil {
			return err
		}
		for _, q := range entries {
			normalizeQueueReplyTo(q)
		}
		vhost["queues"] = toAnyMap(entries)
	}

	if bindings, ok := vhost["bindings"]; ok {
		expanded, err := expandBindings(bindings)
		if err != nil {
			return err
		}
		vhost["bindings"] = toAnyMap(expanded)
	}

	for _, key := range []string{"publications", "subscriptions"} {
		if v, ok := vhost[key]; ok {
			entries, err := normalizeKeyed(v)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if err := resolveEncryptionField(entry, profiles, key == "subscriptions"); err != nil {
					return err
				}
			}
			vhost[key] = toAnyMap(entries)
		}
	}
	return nil
}

func normalizeQueueReplyTo(q map[string]any) {
	v, ok := q["replyTo"]
	if !ok {
		return
	}
	delete(q, "replyTo")
	if b, isBool := v.(bool); isBool {
		if b {
			q["replyToTag"] = uuid.NewString()
		}
		return
	}
	if s, isString := v.(string); isString && s != "" {
		q["replyToTag"] = s
	}
}

// mergeConnectionEntries implements §4.1.2.3 and the open question noted
// in §9: `connection` (singular) and `connections` (plural) are
// concatenated, in that order, then de-duplicated. A bare string entry is
// wrapped as {url: string}. An empty result becomes one default entry.
func mergeConnectionEntries(vhost map[string]any) ([]any, error) {
	var entries []any
	if single, ok := vhost["connection"]; ok {
		entries = append(entries, toAnySlice(single)...)
	}
	if plural, ok := vhost["connections"]; ok {
		entries = append(entries, toAnySlice(plural)...)
	}

	normalized := make([]any, 0, len(entries))
	seen := map[string]bool{}
	for _, e := range entries {
		var m map[string]any
		switch t := e.(type) {
		case string:
			m = map[string]any{"url": t}
		case map[string]any:
			m = t
		default:
			continue
		}
		key := mapFingerprint(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, m)
	}
	if len(normalized) == 0 {
		normalized = append(normalized, map[string]any{})
	}
	return normalized, nil
}

var shovelNamePattern = regexp.MustCompile(`^\s*(\S+)\s*->\s*(\S+)\s*$`)

func parseShovelName(name string, shovel map[string]any) {
	m := shovelNamePattern.FindStringSubmatch(name)
	if m == nil {
		return
	}
	if _, ok := shovel["subscription"]; !ok {
		shovel["subscription"] = m[1]
	}
	if _, ok := shovel["publication"]; !ok {
		shovel["publication"] = m[2]
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toAnyMap(in map[string]map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mapFingerprint(m map[string]any) string {
	var b strings.Builder
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(toFingerprintValue(m[k]))
		b.WriteString(";")
	}
	return b.String()
}

func toFingerprintValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return mapFingerprint(t)
	default:
		return fmt.Sprint(t)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
