package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Приведение значений из тела запроса.
// JSON декодируется с UseNumber, форма даёт строки и []any.

func isNullish(v any) bool {
	return v == nil
}

// isFalsy: null, false, 0, NaN и пустая строка
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	case float64:
		return val == 0 || math.IsNaN(val)
	}
	return false
}

func toString(field string, v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	}
	return "", castError(field, "string", v)
}

func toBool(field string, v any) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	case json.Number:
		switch val.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case float64:
		switch val {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, castError(field, "Boolean", v)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toDate: строка в одном из ISO-подобных форматов или миллисекунды с эпохи
func toDate(field string, v any) (time.Time, error) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Truncate(time.Millisecond), nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
	case json.Number:
		if ms, err := val.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
	case float64:
		return time.UnixMilli(int64(val)).UTC(), nil
	}
	return time.Time{}, castError(field, "Date", v)
}

func toStringSlice(field string, v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, castError(field, "[string]", v)
	}

	res := make([]string, 0, len(items))
	for i, item := range items {
		s, err := toString(fmt.Sprintf("%s.%d", field, i), item)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

func castError(field, kind string, v any) error {
	return &CastError{Field: field, Kind: kind, Value: v}
}

type CastError struct {
	Field string
	Kind  string
	Value any
}

func (e *CastError) Error() string {
	raw, err := json.Marshal(e.Value)
	if err != nil {
		raw = []byte(fmt.Sprint(e.Value))
	}
	return fmt.Sprintf("Cast to %s failed for value %s at path \"%s\"", e.Kind, raw, e.Field)
}
