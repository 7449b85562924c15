package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wire shapes use pointers so a missing key or a null can be told apart from
// a zero value. They are filled key by key through decodeObject so that only
// exact key names count; unknown keys are ignored.
type summaryWire struct {
	ID   *int    `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type tableWire struct {
	ID             *int          `json:"id" validate:"required"`
	Name           *string       `json:"name" validate:"required"`
	Capacity       *int          `json:"capacity" validate:"required"`
	HoleCards      *[]*[]*string `json:"holeCards" validate:"required"`
	CommunityCards *[]*string    `json:"communityCards" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	v.RegisterStructValidation(validateCards, tableWire{})
	return v
}

// validateCards rejects null cards. Only whole hands may be null.
func validateCards(sl validator.StructLevel) {
	w, ok := sl.Current().Interface().(tableWire)
	if !ok {
		return
	}
	if w.HoleCards != nil {
		for i, hand := range *w.HoleCards {
			if hand == nil {
				continue
			}
			for j, card := range *hand {
				if card == nil {
					sl.ReportError(card, fmt.Sprintf("holeCards[%d][%d]", i, j), "HoleCards", "required", "")
				}
			}
		}
	}
	if w.CommunityCards != nil {
		for i, card := range *w.CommunityCards {
			if card == nil {
				sl.ReportError(card, fmt.Sprintf("communityCards[%d]", i), "CommunityCards", "required", "")
			}
		}
	}
}

// DecodeOption tunes table decoding.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	seatCount bool
}

// WithSeatCountCheck requires len(holeCards) to equal capacity.
func WithSeatCountCheck(enabled bool) DecodeOption {
	return func(o *decodeOptions) {
		o.seatCount = enabled
	}
}

// DecodeSummaries decodes a JSON array of table summaries. Any element that
// does not conform fails the whole document.
func DecodeSummaries(data []byte) ([]Summary, error) {
	var elems *[]json.RawMessage
	if err := unmarshal(data, &elems, ""); err != nil {
		return nil, err
	}
	if elems == nil {
		return nil, rootViolation("expected array, received null")
	}

	var violations []Violation
	out := make([]Summary, 0, len(*elems))
	for i, raw := range *elems {
		var w summaryWire
		vs, err := decodeObject(raw, &w, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		out = append(out, Summary{ID: *w.ID, Name: *w.Name})
	}
	if len(violations) > 0 {
		return nil, &DecodeError{Violations: violations}
	}
	return out, nil
}

// DecodeTable decodes a single JSON table object.
func DecodeTable(data []byte, opts ...DecodeOption) (Table, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Table{}, err
	}
	if isNull(raw) {
		return Table{}, rootViolation("expected object, received null")
	}
	var w tableWire
	vs, err := decodeObject(raw, &w, "")
	if err != nil {
		return Table{}, err
	}
	if len(vs) > 0 {
		return Table{}, &DecodeError{Violations: vs}
	}
	if o.seatCount && len(*w.HoleCards) != *w.Capacity {
		return Table{}, &DecodeError{Violations: []Violation{{
			Path:   "holeCards",
			Reason: fmt.Sprintf("expected %d seats, received %d", *w.Capacity, len(*w.HoleCards)),
		}}}
	}

	t := Table{
		ID:             *w.ID,
		Name:           *w.Name,
		Capacity:       *w.Capacity,
		HoleCards:      make([]Hand, len(*w.HoleCards)),
		CommunityCards: make([]string, len(*w.CommunityCards)),
	}
	for i, hand := range *w.HoleCards {
		if hand == nil {
			continue
		}
		h := make(Hand, len(*hand))
		for j, card := range *hand {
			h[j] = *card
		}
		t.HoleCards[i] = h
	}
	for i, card := range *w.CommunityCards {
		t.CommunityCards[i] = *card
	}
	return t, nil
}

// decodeObject fills the fields of w, a pointer to a wire struct, from the
// JSON object raw. Keys must match the json tag exactly; differently cased
// keys are treated as unknown and ignored. The returned violations cover type
// mismatches and missing or null required fields.
func decodeObject(raw json.RawMessage, w any, prefix string) ([]Violation, error) {
	var fields map[string]json.RawMessage
	if err := unmarshal(raw, &fields, prefix); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return de.Violations, nil
		}
		return nil, err
	}

	v := reflect.ValueOf(w).Elem()
	typed := make(map[string]bool)
	var out []Violation
	for i := 0; i < v.NumField(); i++ {
		name := jsonName(v.Type().Field(i))
		data, ok := fields[name]
		if !ok {
			continue
		}
		path := joinPath(prefix, name)
		if err := unmarshal(data, v.Field(i).Addr().Interface(), path); err != nil {
			var de *DecodeError
			if !errors.As(err, &de) {
				return nil, err
			}
			v.Field(i).SetZero()
			typed[path] = true
			out = append(out, de.Violations...)
		}
	}

	for _, vl := range check(w, prefix) {
		if !typed[vl.Path] {
			out = append(out, vl)
		}
	}
	return out, nil
}

// unmarshal parses data into v. Type mismatches become a DecodeError rooted
// at path; syntax errors are returned untouched so callers can tell
// malformed JSON apart.
func unmarshal(data []byte, v any, path string) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &DecodeError{Violations: []Violation{{
			Path:   path,
			Reason: fmt.Sprintf("expected %s, received %s", jsonKind(te.Type), te.Value),
		}}}
	}
	return err
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// check runs the struct validator and converts its report into violations
// whose paths are prefixed by prefix.
func check(v any, prefix string) []Violation {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Path: prefix, Reason: err.Error()}}
	}
	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is "<struct type>.<json path>".
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out = append(out, Violation{Path: joinPath(prefix, path), Reason: fe.Tag()})
	}
	return out
}

func rootViolation(reason string) *DecodeError {
	return &DecodeError{Violations: []Violation{{Reason: reason}}}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Ptr:
		return jsonKind(t.Elem())
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}
