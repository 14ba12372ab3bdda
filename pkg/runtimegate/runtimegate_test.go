package runtimegate

import "testing"

func TestInspect(t *testing.T) {
	t.Run("supported release passes", func(t *testing.T) {
		r := Inspect("go1.22.4")
		if r.Verdict != VerdictOK {
			t.Fatalf("verdict mismatch: got=%d want=%d", r.Verdict, VerdictOK)
		}
	})

	t.Run("wrong major is fatal", func(t *testing.T) {
		r := Inspect("go2.0.1")
		if r.Verdict != VerdictFatal {
			t.Fatalf("verdict mismatch: got=%d want=%d", r.Verdict, VerdictFatal)
		}
		if r.Message == "" {
			t.Fatalf("expected a fatal message")
		}
	})

	t.Run("newer minor warns but continues", func(t *testing.T) {
		r := Inspect("go1.99.0")
		if r.Verdict != VerdictCaution {
			t.Fatalf("verdict mismatch: got=%d want=%d", r.Verdict, VerdictCaution)
		}
	})

	t.Run("validated minor itself is fine", func(t *testing.T) {
		r := Inspect("go1.24.0")
		if r.Verdict != VerdictOK {
			t.Fatalf("verdict mismatch: got=%d want=%d", r.Verdict, VerdictOK)
		}
	})

	t.Run("devel toolchain warns", func(t *testing.T) {
		r := Inspect("devel +a1b2c3 linux/amd64")
		if r.Verdict != VerdictCaution {
			t.Fatalf("verdict mismatch: got=%d want=%d", r.Verdict, VerdictCaution)
		}
	})
}
