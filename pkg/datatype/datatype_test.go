package datatype

import (
	"encoding/base64"
	"strings"
	"testing"
)

func builtinsByName(t *testing.T) map[string]DataType {
	t.Helper()
	m := map[string]DataType{}
	for _, d := range Builtins() {
		m[d.Name()] = d
	}
	return m
}

func TestBuiltins(t *testing.T) {
	m := builtinsByName(t)
	for _, name := range []string{"form", "json", "multipart", "xml", "plain"} {
		if _, ok := m[name]; !ok {
			t.Fatalf("builtin encoder missing: %s", name)
		}
	}
}

func TestFormEncode(t *testing.T) {
	m := builtinsByName(t)
	body, err := m["form"].Encode(map[string]string{"name": "{{7*7}}"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := string(body), "name=%7B%7B7%2A7%7D%7D"; got != want {
		t.Fatalf("body mismatch: got=%q want=%q", got, want)
	}
}

func TestJSONEncode(t *testing.T) {
	m := builtinsByName(t)
	body, err := m["json"].Encode(map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := string(body), `{"a":"b"}`; got != want {
		t.Fatalf("body mismatch: got=%q want=%q", got, want)
	}
}

func TestMultipartEncode(t *testing.T) {
	m := builtinsByName(t)
	d := m["multipart"]
	body, err := d.Encode(map[string]string{"field": "value"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(body), `name="field"`) {
		t.Fatalf("field part missing from body: %q", body)
	}
	if !strings.Contains(d.ContentType(), "boundary="+multipartBoundary) {
		t.Fatalf("content type missing boundary: %q", d.ContentType())
	}
}

func TestReadChain(t *testing.T) {
	m := builtinsByName(t)
	lookup := func(name string) (DataType, bool) {
		d, ok := m[name]
		return d, ok
	}

	t.Run("steps compose in declared order", func(t *testing.T) {
		chain, err := ReadChain([]byte("name: plain_b64\nbase: plain\nsteps: [base64]\n"), lookup)
		if err != nil {
			t.Fatalf("read chain: %v", err)
		}
		body, err := chain.Encode(map[string]string{"k": "v"})
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		want := base64.StdEncoding.EncodeToString([]byte("k=v"))
		if string(body) != want {
			t.Fatalf("body mismatch: got=%q want=%q", body, want)
		}
	})

	t.Run("unknown base is rejected", func(t *testing.T) {
		if _, err := ReadChain([]byte("name: x\nbase: nope\n"), lookup); err == nil {
			t.Fatalf("expected unknown base error")
		}
	})

	t.Run("unknown step is rejected", func(t *testing.T) {
		if _, err := ReadChain([]byte("name: x\nbase: plain\nsteps: [rot13]\n"), lookup); err == nil {
			t.Fatalf("expected unknown step error")
		}
	})

	t.Run("content type falls back to base", func(t *testing.T) {
		chain, err := ReadChain([]byte("name: x\nbase: json\nsteps: [url]\n"), lookup)
		if err != nil {
			t.Fatalf("read chain: %v", err)
		}
		if got, want := chain.ContentType(), "application/json"; got != want {
			t.Fatalf("content type mismatch: got=%q want=%q", got, want)
		}
	})
}
