package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// Format writes data as indented JSON, or compact JSON in quiet mode.
func (f *JSONFormatter) Format(w io.Writer, data json.RawMessage) error {
	var buf bytes.Buffer
	var err error
	if f.options.Quiet {
		err = json.Compact(&buf, data)
	} else {
		err = json.Indent(&buf, data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')

	_, err = w.Write(buf.Bytes())
	return err
}
