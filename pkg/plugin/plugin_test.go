package plugin

import (
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	data := []byte(`
id: jinja2
probes:
  - inject: "{{ {r1}*{r2} }}"
    render: "{r1*r2}"
info:
  name: Jinja2
  severity: high
`)
	p, err := Read(data)
	if err != nil {
		t.Fatalf("read plugin: %v", err)
	}
	if p.Id != "jinja2" {
		t.Fatalf("id mismatch: got=%s want=jinja2", p.Id)
	}
	if got, want := len(p.Probes), 1; got != want {
		t.Fatalf("probes mismatch: got=%d want=%d", got, want)
	}
}

func TestReadRejectsBadDescriptors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		if _, err := Read([]byte("probes:\n  - inject: x\n    render: y\n")); err == nil {
			t.Fatalf("expected error for missing id")
		}
	})
	t.Run("no probes", func(t *testing.T) {
		if _, err := Read([]byte("id: x\n")); err == nil {
			t.Fatalf("expected error for empty probe list")
		}
	})
	t.Run("broken yaml", func(t *testing.T) {
		if _, err := Read([]byte("id: [unterminated")); err == nil {
			t.Fatalf("expected yaml error")
		}
	})
}

func TestProbeExpand(t *testing.T) {
	pr := Probe{Inject: "{{ {r1}*{r2} }}", Render: "{r1*r2}"}
	payload, expected := pr.Expand(7, 11)
	if payload != "{{ 7*11 }}" {
		t.Fatalf("payload mismatch: got=%q", payload)
	}
	if expected != "77" {
		t.Fatalf("expected mismatch: got=%q want=77", expected)
	}
	if strings.Contains(payload, "{r1}") {
		t.Fatalf("unexpanded token left in payload: %q", payload)
	}
}
