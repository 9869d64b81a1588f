// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/whctlgo/internal/attrs"
	"github.com/staranto/whctlgo/internal/config"
	"github.com/staranto/whctlgo/internal/filters"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists every --output value.
var Formats = []string{FormatText, FormatJSON, FormatRaw, FormatYAML}

// Options are the presentation flags shared by all commands.
type Options struct {
	Attrs  string
	Format string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// OptionsFromCommand reads Options from the command's flags.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Attrs:  cmd.String("attrs"),
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// ColorDefault reports whether colored output should be on when the user
// did not say: stdout is a terminal and NO_COLOR is unset.
func ColorDefault() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SliceDiceSpit filters, sorts and renders rows. columns fixes the column
// order of every format. With the raw format, raw is written untouched and
// rows are ignored.
func SliceDiceSpit(w io.Writer, raw []byte, rows []map[string]any, columns []string, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == FormatRaw {
		return writeRaw(w, raw)
	}

	rows = filters.FilterRows(rows, columns, opts.Filter)
	SortDataset(rows, opts.Sort)

	list, err := attrs.Parse(opts.Attrs)
	if err != nil {
		return err
	}
	rows, columns = list.Project(rows, columns)
	log.Debugf("emitting %d rows as %s", len(rows), opts.Format)

	switch opts.Format {
	case FormatJSON:
		out, err := marshalRows(rows, columns)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(yamlRows(rows, columns))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(w, rows, columns, opts)
		return nil
	}
}

// EmitDocument writes a single document. text and json print indented JSON,
// yaml converts the JSON form keeping its key order, raw prints compact JSON.
func EmitDocument(w io.Writer, v any, format string) error {
	if w == nil {
		w = os.Stdout
	}

	compact, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	switch format {
	case FormatRaw:
		return writeRaw(w, compact)
	case FormatYAML:
		out, err := yaml.Marshal(toYAML(gjson.ParseBytes(compact)))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, compact, "", "  "); err != nil {
			return fmt.Errorf("failed to indent document: %w", err)
		}
		buf.WriteByte('\n')
		_, err = w.Write(buf.Bytes())
		return err
	}
}

func writeRaw(w io.Writer, raw []byte) error {
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		_, err := w.Write([]byte{'\n'})
		return err
	}
	return nil
}

// marshalRows encodes rows as a JSON array of objects whose keys follow
// columns.
func marshalRows(rows []map[string]any, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(c)
			v, err := json.Marshal(row[c])
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s: %w", c, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func yamlRows(rows []map[string]any, columns []string) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := make(yaml.MapSlice, 0, len(columns))
		for _, c := range columns {
			ms = append(ms, yaml.MapItem{Key: c, Value: row[c]})
		}
		out = append(out, ms)
	}
	return out
}

// toYAML converts a JSON value into yaml.v2 values, objects becoming
// MapSlices in document order.
func toYAML(r gjson.Result) any {
	switch {
	case r.IsObject():
		ms := yaml.MapSlice{}
		r.ForEach(func(k, v gjson.Result) bool {
			ms = append(ms, yaml.MapItem{Key: k.String(), Value: toYAML(v)})
			return true
		})
		return ms
	case r.IsArray():
		items := []any{}
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, toYAML(v))
			return true
		})
		return items
	default:
		return r.Value()
	}
}

// TableWriter renders rows in a tabular form honoring color, titles and
// padding options.
func TableWriter(w io.Writer, rows []map[string]any, columns []string, opts Options) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2)

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(columns))
		for _, c := range columns {
			line = append(line, InterfaceToString(row[c], "-"))
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Rows(cells...)

	if opts.Titles {
		headers := make([]string, len(columns))
		for i, c := range columns {
			headers[i] = strings.ToUpper(c)
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t.String())
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(key+".title", "#f6be00")
	even, _ = config.GetString(key+".even", "#ffffff")
	odd, _ = config.GetString(key+".odd", "#00c8f0")
	return
}

// InterfaceToString converts a cell value to a string. A custom empty value
// may be provided for nil and zero values.
func InterfaceToString(value any, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	if value == nil {
		return empty
	}
	rv := reflect.ValueOf(value)
	if rv.IsZero() || ((rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.Len() == 0) {
		return empty
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []string:
		return strings.Join(value, ",")
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
