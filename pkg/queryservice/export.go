package queryservice

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EncodeCSV serializes rows under the given column order. Cells containing
// the delimiter or quote character are escaped with standard CSV quoting
// (double-quote wrapping, doubled internal quotes). Missing cells encode as
// empty fields.
func EncodeCSV(rows []map[string]any, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = cellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON serializes rows as an indented JSON array, matching the shape
// the rows arrived in.
func EncodeJSON(rows []map[string]any) ([]byte, error) {
	return json.MarshalIndent(rows, "", "  ")
}

// ExportFilename names a download the way the widget always has:
// data_<timestamp>.<ext>.
func ExportFilename(format string) string {
	ext := format
	if format == "excel" {
		ext = "xlsx"
	}
	return fmt.Sprintf("data_%d.%s", time.Now().UnixMilli(), ext)
}

// cellString coerces a decoded JSON value to its display representation.
// Numbers arrive as float64 after JSON decoding and must not grow a
// fractional suffix when they are integral.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
