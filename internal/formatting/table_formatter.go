package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pkgstrings "typetalk/pkg/strings"
)

// maxFlattenDepth bounds how far nested objects are expanded into dotted
// column names. Deeper values are summarized.
const maxFlattenDepth = 2

// TableFormatter renders responses as go-pretty tables.
type TableFormatter struct {
	options Options
}

// Format decodes data and renders it. Objects become a KEY/VALUE table for
// their scalar fields followed by one table per array field. Arrays of objects
// become a single table whose columns are the union of the flattened keys.
func (f *TableFormatter) Format(w io.Writer, data json.RawMessage) error {
	value, err := decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		return f.formatObject(w, v)
	case []interface{}:
		return f.formatArray(w, "", v)
	default:
		_, err := fmt.Fprintln(w, f.cell(v))
		return err
	}
}

func decode(data json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.options.Quiet {
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) header(s string) string {
	s = strings.ToUpper(s)
	if f.options.Color {
		return text.FgHiCyan.Sprint(s)
	}
	return s
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(w io.Writer, title string) error {
	msg := "No items found"
	if title != "" {
		msg = fmt.Sprintf("No %s found", title)
	}
	if f.options.Color {
		msg = text.FgYellow.Sprint(msg)
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

// formatObject formats the scalar fields of an object as key-value pairs and
// every array field as its own table.
func (f *TableFormatter) formatObject(w io.Writer, data map[string]interface{}) error {
	fields := make(map[string]interface{})
	var arrays []string
	for key, value := range data {
		if _, ok := value.([]interface{}); ok {
			arrays = append(arrays, key)
			continue
		}
		flatten(fields, key, value, 1)
	}
	sort.Strings(arrays)

	if len(fields) > 0 {
		t := f.createTable(w)
		t.AppendHeader(table.Row{f.header("key"), f.header("value")})
		for _, key := range sortedKeys(fields) {
			t.AppendRow(table.Row{key, f.cell(fields[key])})
		}
		t.Render()
	}

	for _, key := range arrays {
		if err := f.formatArray(w, key, data[key].([]interface{})); err != nil {
			return err
		}
	}

	if len(fields) == 0 && len(arrays) == 0 {
		return f.formatEmptyMessage(w, "")
	}
	return nil
}

// formatArray formats array data as a table with one row per element.
func (f *TableFormatter) formatArray(w io.Writer, title string, data []interface{}) error {
	if len(data) == 0 {
		return f.formatEmptyMessage(w, title)
	}

	rows := make([]map[string]interface{}, 0, len(data))
	var columns []string
	seen := make(map[string]bool)
	for _, item := range data {
		row := make(map[string]interface{})
		if obj, ok := item.(map[string]interface{}); ok {
			for key, value := range obj {
				flatten(row, key, value, 1)
			}
		} else {
			row["value"] = item
		}
		for _, key := range sortedKeys(row) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		rows = append(rows, row)
	}

	t := f.createTable(w)
	if title != "" && !f.options.Quiet {
		t.SetTitle(title)
	}

	header := make(table.Row, 0, len(columns))
	for _, col := range columns {
		header = append(header, f.header(col))
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, 0, len(columns))
		for _, col := range columns {
			r = append(r, f.cell(row[col]))
		}
		t.AppendRow(r)
	}

	if !f.options.Quiet {
		t.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(rows))})
	}
	t.Render()
	return nil
}

// flatten stores value under key, expanding nested objects into dotted keys
// until maxFlattenDepth is reached.
func flatten(dst map[string]interface{}, key string, value interface{}, depth int) {
	obj, ok := value.(map[string]interface{})
	if !ok || depth > maxFlattenDepth {
		dst[key] = value
		return
	}
	if len(obj) == 0 {
		dst[key] = nil
		return
	}
	for k, v := range obj {
		flatten(dst, key+"."+k, v, depth+1)
	}
}

// cell converts a decoded JSON value to a single-line table cell.
func (f *TableFormatter) cell(value interface{}) string {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	case map[string]interface{}:
		s = fmt.Sprintf("{%d fields}", len(v))
	case []interface{}:
		s = summarizeArray(v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	maxLen := f.options.MaxCellWidth
	if maxLen == 0 {
		maxLen = pkgstrings.DefaultCellWidth
	}
	return pkgstrings.Truncate(s, maxLen)
}

// summarizeArray joins arrays of scalars and counts anything else.
func summarizeArray(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch sv := v.(type) {
		case string:
			parts = append(parts, sv)
		case json.Number:
			parts = append(parts, sv.String())
		case bool:
			parts = append(parts, strconv.FormatBool(sv))
		default:
			return fmt.Sprintf("[%d items]", len(values))
		}
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
