package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultJSONIndent = 2

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	return parseOutputFormat(viper.GetString("output"))
}

func parseOutputFormat(format string) (string, error) {
	if format == "" {
		return constants.OutputFormatTable, nil
	}

	switch format {
	case constants.OutputFormatTable, constants.OutputFormatJSON, constants.OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// writeStructured encodes value as JSON or YAML. It reports false for the
// table format so callers can render their own table.
func writeStructured(w io.Writer, format string, value interface{}) (bool, error) {
	switch format {
	case constants.OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return true, encoder.Encode(value)
	case constants.OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() {
			_ = encoder.Close()
		}()

		return true, encoder.Encode(value)
	default:
		return false, nil
	}
}

// renderRecords prints records as a table with one column per key.
func renderRecords(w io.Writer, records []aot.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found")

		return err
	}

	columns := recordColumns(records)

	table := tablewriter.NewWriter(w)
	table.Header(toCells(columns)...)

	for _, record := range records {
		row := make([]any, len(columns))
		for i, column := range columns {
			row[i] = formatValue(record[column])
		}

		_ = table.Append(row...)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecord prints a single record as a property/value table.
func renderRecord(w io.Writer, record aot.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, key := range recordColumns([]aot.Record{record}) {
		_ = table.Append(key, formatValue(record[key]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func recordColumns(records []aot.Record) []string {
	seen := make(map[string]struct{})

	var columns []string

	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}

	slices.Sort(columns)

	return columns
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}

	return cells
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
