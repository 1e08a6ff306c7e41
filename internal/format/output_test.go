package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID     string   `json:"id"`
	Depth  int      `json:"depth"`
	Header bool     `json:"isGroupHeader"`
	Path   []string `json:"groupPath,omitempty"`
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []row{{ID: "12", Depth: 2}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != `[{"id":"12","depth":2,"isGroupHeader":false}]`+"\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_YAMLUsesJSONNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, row{ID: "12", Depth: 2, Path: []string{"Sales"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`id: "12"`, "depth: 2", "isGroupHeader: false", "groupPath:\n  - Sales"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in yaml output:\n%s", want, out)
		}
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{"order": []string{"b", "a"}, "app": "10", "n": 1.5, "ok": true, "none": nil, "bad key": 1}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:app "10" "bad key" 1 :n 1.5 :none nil :ok true :order ["b" "a"]}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("edn = %q, want %q", got, want)
	}

	buf.Reset()
	if err := WriteEDN(&buf, map[string]any{"a": []int{1}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	if got := buf.String(); got != "{\n  :a [\n    1\n  ]\n}\n" {
		t.Fatalf("pretty edn = %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
