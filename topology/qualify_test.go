package topology

import "testing"

func TestQualify(t *testing.T) {
	cases := []struct {
		name      string
		namespace string
		tag       string
		want      string
	}{
		{name: "e1", namespace: "", want: "e1"},
		{name: "e1", namespace: "ns", want: "ns:e1"},
		{name: "q1", namespace: "ns", tag: "abc", want: "ns:q1:abc"},
		{name: "q1", namespace: "", tag: "abc", want: "q1:abc"},
		{name: DefaultExchangeName, namespace: "ns", tag: "abc", want: ""},
	}
	for _, c := range cases {
		var got string
		if c.tag != "" {
			got = Qualify(c.name, c.namespace, c.tag)
		} else {
			got = Qualify(c.name, c.namespace)
		}
		if got != c.want {
			t.Errorf("Qualify(%q, %q, %q) = %q, want %q", c.name, c.namespace, c.tag, got, c.want)
		}
	}
}

// TestQualifyEmptyNamespaceIsIdentity covers invariant 6: qualify(_, '', _)
// is the identity on the first argument.
func TestQualifyEmptyNamespaceIsIdentity(t *testing.T) {
	if got := Qualify("q1", ""); got != "q1" {
		t.Errorf("Qualify(%q, %q) = %q, want identity", "q1", "", got)
	}
}
