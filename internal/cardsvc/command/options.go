package command

import (
	"encoding/json"
	"math"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// Options is the untyped argument bag of one command invocation.
type Options map[string]any

// Extract checks presence only. A key holding null counts as absent.
func Extract(opts Options, field string, required bool) (models.Optional[any], error) {
	raw, ok := opts[field]
	if !ok || raw == nil {
		if required {
			return models.None[any](), apperr.ParameterNotFoundf("Required option %q not found.", field)
		}
		return models.None[any](), nil
	}
	return models.Some(raw), nil
}

func DecodeString(field string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", apperr.InvalidParameterf("%s is not a string!", field)
	}
	return s, nil
}

func DecodeBoolean(field string, raw any) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, apperr.InvalidParameterf("%s is not a boolean!", field)
	}
	return b, nil
}

// DecodeNumber accepts any Go numeric kind and json.Number.
func DecodeNumber(field string, raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return f, nil
		}
	}
	return 0, apperr.InvalidParameterf("%s is not a number!", field)
}

// largest integer a JSON number carries exactly
const maxSafeInteger = 1<<53 - 1

// DecodeInteger narrows a number to a whole int.
func DecodeInteger(field string, raw any) (int, error) {
	f, err := DecodeNumber(field, raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxSafeInteger {
		return 0, apperr.InvalidParameterf("%s is not an integer!", field)
	}
	return int(f), nil
}

// RequiredField extracts and decodes a field that must be present.
func RequiredField[T any](opts Options, field string, decode func(string, any) (T, error)) (T, error) {
	var zero T
	raw, err := Extract(opts, field, true)
	if err != nil {
		return zero, err
	}
	v, _ := raw.Get()
	return decode(field, v)
}

// OptionalField extracts and decodes a field that may be absent.
func OptionalField[T any](opts Options, field string, decode func(string, any) (T, error)) (models.Optional[T], error) {
	raw, err := Extract(opts, field, false)
	if err != nil {
		return models.None[T](), err
	}
	return models.MapOptional(raw, func(v any) (T, error) { return decode(field, v) })
}

// FieldWithDefault is OptionalField with def substituted for absence.
func FieldWithDefault[T any](opts Options, field string, decode func(string, any) (T, error), def T) (T, error) {
	v, err := OptionalField(opts, field, decode)
	if err != nil {
		return def, err
	}
	return v.OrElse(def), nil
}
