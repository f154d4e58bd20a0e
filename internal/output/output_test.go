package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testItem struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
}

func TestNewWriter_Formats(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
		{FormatText, "*output.TextWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("NewWriter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}

	if _, err := NewWriter(&bytes.Buffer{}, Format("xml")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSONL ")
	if err != nil || f != FormatJSONL {
		t.Errorf("ParseFormat(JSONL) = %q, %v", f, err)
	}
	if _, err := ParseFormat("csv"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported error, got %v", err)
	}
}

func TestJSONWriter_AlwaysArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	if err := w.Write(testItem{Index: 0, Text: "<b>hi</b>"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !strings.Contains(buf.String(), "<b>hi</b>") {
		t.Errorf("HTML should not be escaped: %s", buf.String())
	}

	var result []testItem
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(result) != 1 || result[0].Text != "<b>hi</b>" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestJSONLWriter_OneLinePerItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)
	for i, text := range []string{"a", "b\nc"} {
		if err := w.Write(testItem{Index: i, Text: text}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var second testItem
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("failed to unmarshal line: %v", err)
	}
	if second.Text != "b\nc" {
		t.Errorf("unexpected text %q", second.Text)
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)
	_ = w.Write(testItem{Index: 0, Text: "first"})
	_ = w.Write(testItem{Index: 1, Text: "second"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var result []testItem
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(result) != 2 || result[1].Text != "second" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)
	if err := w.Write("one"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testItem{}); err == nil {
		t.Error("expected error for non-string item")
	}
	_ = w.Close()

	if buf.String() != "one\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
