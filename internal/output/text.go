package output

import (
	"bufio"
	"fmt"
	"io"
)

// TextWriter writes each item on its own line. Items must be strings or
// implement fmt.Stringer.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a plain text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes one item followed by a newline.
func (w *TextWriter) Write(data any) error {
	var s string
	switch v := data.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return fmt.Errorf("text output needs a string, got %T", data)
	}
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
