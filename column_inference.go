package tableview

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/tableview/domain/model"
)

// Common datetime patterns to detect. Loaded columns that hold datetimes stay text.
var datetimePatterns = []struct {
	pattern *regexp.Regexp
	formats []string // Multiple formats for the same pattern
}{
	// ISO8601 formats with timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	// Time only
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.000", "3:04:05"},
	},
}

// isDatetime checks if a string value represents a datetime
func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	for _, dp := range datetimePatterns {
		if dp.pattern.MatchString(value) {
			for _, format := range dp.formats {
				if _, err := time.Parse(format, value); err == nil {
					return true
				}
			}
		}
	}
	return false
}

// columnType is the storage type inferred for a loaded text column.
type columnType int

const (
	columnTypeText columnType = iota
	columnTypeInteger
	columnTypeReal
	columnTypeDatetime
)

// String returns the type name
func (c columnType) String() string {
	switch c {
	case columnTypeInteger:
		return "INTEGER"
	case columnTypeReal:
		return "REAL"
	case columnTypeDatetime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// inferColumnType infers the storage type of a column read from a text file.
// Empty values are skipped; a single non-number makes the column text.
func inferColumnType(values []string) columnType {
	hasDatetime := false
	hasReal := false
	hasInteger := false

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if isDatetime(value) {
			hasDatetime = true
			continue
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}
		return columnTypeText
	}

	// Priority: DATETIME > REAL > INTEGER
	switch {
	case hasDatetime:
		return columnTypeDatetime
	case hasReal:
		return columnTypeReal
	case hasInteger:
		return columnTypeInteger
	default:
		return columnTypeText
	}
}

// typedValues converts the text of a loaded column to the scalars the builder
// expects: int64 and float64 for number columns, strings otherwise. Empty
// cells of a number column become nil.
func typedValues(values []string, typ columnType) []any {
	out := make([]any, len(values))
	for i, raw := range values {
		out[i] = typedValue(raw, typ)
	}
	return out
}

// typedValue converts one cell. A cell that does not parse as the column's
// number type keeps its text.
func typedValue(raw string, typ columnType) any {
	s := strings.TrimSpace(raw)
	switch typ {
	case columnTypeInteger:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case columnTypeReal:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	default:
		return raw
	}
	if s == "" {
		return nil
	}
	return raw
}

// isNumber reports whether typedValues yields numbers for the type.
func (c columnType) isNumber() bool {
	return c == columnTypeInteger || c == columnTypeReal
}

// toNumber is the first step of per-cell coercion: it reports the value as a
// float64 when it is convertible to a number.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case model.Value:
		return x.Numeric()
	default:
		return 0, false
	}
}

// toValue keeps the original representation of a value in a text column.
func toValue(v any) model.Value {
	switch x := v.(type) {
	case nil:
		return model.Text("")
	case model.Value:
		return x
	case string:
		return model.Text(x)
	case float64:
		return model.Float(x)
	case float32:
		return model.Float(float64(x))
	case int:
		return model.Int(int64(x))
	case int8:
		return model.Int(int64(x))
	case int16:
		return model.Int(int64(x))
	case int32:
		return model.Int(int64(x))
	case int64:
		return model.Int(x)
	case uint:
		return unsignedValue(uint64(x))
	case uint8:
		return model.Int(int64(x))
	case uint16:
		return model.Int(int64(x))
	case uint32:
		return model.Int(int64(x))
	case uint64:
		return unsignedValue(x)
	case bool:
		return model.Text(strconv.FormatBool(x))
	case time.Time:
		return model.Text(x.Format(time.RFC3339))
	case []byte:
		return model.Text(string(x))
	case fmt.Stringer:
		return model.Text(x.String())
	default:
		return model.Text(fmt.Sprint(x))
	}
}

func unsignedValue(u uint64) model.Value {
	if u > math.MaxInt64 {
		return model.Float(float64(u))
	}
	return model.Int(int64(u))
}
