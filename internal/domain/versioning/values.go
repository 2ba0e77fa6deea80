package versioning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gorm.io/datatypes"
)

// maxExactInt is the largest integer a float64 holds without loss.
const maxExactInt = 1 << 53

// ColumnValue converts a snapshot value into the representation stored in the
// live column for kind. Values normally arrive normalized, but raw JSON
// decodes (float64, json.Number) are accepted too.
func ColumnValue(kind FieldKind, v any) (any, error) {
	switch kind {
	case KindText:
		switch t := v.(type) {
		case nil:
			return "", nil
		case string:
			return t, nil
		}
	case KindInt:
		return toInt(v)
	case KindDecimal:
		return toFloat(v)
	case KindBool:
		switch t := v.(type) {
		case nil:
			return false, nil
		case bool:
			return t, nil
		}
	case KindJSON:
		if v == nil {
			return datatypes.JSON("null"), nil
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(raw), nil
	default:
		return nil, fmt.Errorf("unsupported field kind %d", kind)
	}
	return nil, fmt.Errorf("value %v (%T) does not fit field kind %d", v, v, kind)
}

// DecodeJSONValue turns a stored JSON column into a plain Go value with
// numbers normalized the way NormalizeValue does.
func DecodeJSONValue(raw datatypes.JSON) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return NormalizeValue(out)
}

// NormalizeValue gives every snapshot value one Go shape no matter whether it
// was read from a live row or decoded from a stored snapshot. Integral numbers
// become int64, other numbers float64. Slices and maps are walked.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return normalizeFloat(f)
		}
		return t.String()
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = NormalizeValue(e)
		}
		return out
	}
	return v
}

// NormalizeFields normalizes a snapshot field map. Registered int fields are
// int64 and decimal fields float64, so a whole-number price stays a float.
func NormalizeFields(entityType EntityType, fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	kinds := map[string]FieldKind{}
	if specs, err := FieldSpecs(entityType); err == nil {
		for _, f := range specs {
			kinds[f.Name] = f.Kind
		}
	}
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		out[name] = normalizeField(kinds[name], v)
	}
	return out
}

func normalizeField(kind FieldKind, v any) any {
	switch kind {
	case KindInt:
		if i, err := toInt(v); err == nil && v != nil {
			return i
		}
	case KindDecimal:
		if f, err := toFloat(v); err == nil && v != nil {
			return f
		}
	}
	return NormalizeValue(v)
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
		return int64(f)
	}
	return f
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("value %v is not an integer", t)
		}
		return int64(t), nil
	case json.Number:
		return t.Int64()
	case string:
		return strconv.ParseInt(t, 10, 64)
	}
	return 0, fmt.Errorf("value %v (%T) is not an integer", v, v)
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(t, 64)
	}
	return 0, fmt.Errorf("value %v (%T) is not a number", v, v)
}
