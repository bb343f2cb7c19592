package topology

// DefaultExchangeName is the nameless exchange every vhost implicitly owns.
const DefaultExchangeName = ""

// Qualify implements §4.5: qualify(name, namespace, tag?) = namespace ?
// namespace + ':' + name (+ ':' + tag?) : name (+ ':' + tag?). The empty
// string exchange name is always returned unchanged, regardless of
// namespace or tag, per the invariant in §3 and §8 (qualify(_, '', _) is
// only an identity when namespace is empty; the default exchange is
// special-cased on top of that).
func Qualify(name, namespace string, tag ...string) string {
	if name == DefaultExchangeName {
		return name
	}
	out := name
	if namespace != "" {
		out = namespace + ":" + out
	}
	if len(tag) > 0 && tag[0] != "" {
		out = out + ":" + tag[0]
	}
	return out
}
