package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
)

// ============================================================================
// Schema well-formedness
// ============================================================================

// ValidateSchema checks that s is well formed: enum values and names, union
// discriminants and struct field names are unique, sizes and bounds are
// non-negative, and every composite has its element schemas. Every problem
// found is reported, not only the first.
func ValidateSchema(s *Schema) error {
	var result *multierror.Error
	validateSchema(s, "$", &result)
	return result.ErrorOrNil()
}

// IsWellFormed is the predicate form of ValidateSchema.
func IsWellFormed(s *Schema) bool {
	return ValidateSchema(s) == nil
}

func validateSchema(s *Schema, path string, result **multierror.Error) {
	fail := func(format string, args ...any) {
		*result = multierror.Append(*result, fmt.Errorf("%s: "+format, append([]any{path}, args...)...))
	}

	if s == nil {
		fail("schema is nil")
		return
	}

	switch s.Kind {
	case KindVoid, KindInt, KindUnsignedInt, KindBoolean, KindHyper,
		KindUnsignedHyper, KindFloat, KindDouble, KindQuadruple, KindConst:

	case KindEnum:
		names := make(map[string]bool, len(s.Enum))
		values := make(map[int32]bool, len(s.Enum))
		for _, e := range s.Enum {
			if e.Name == "" {
				fail("enum member with empty name")
			}
			if names[e.Name] {
				fail("duplicate enum name %q", e.Name)
			}
			if values[e.Value] {
				fail("duplicate enum value %d", e.Value)
			}
			names[e.Name] = true
			values[e.Value] = true
		}

	case KindOpaque:
		if s.Size < 0 || s.Size > math.MaxUint32 {
			fail("invalid opaque size %d", s.Size)
		}

	case KindVarOpaque, KindString:
		validateMax(s.Max, fail)

	case KindArray:
		if s.Size < 0 || s.Size > math.MaxUint32 {
			fail("invalid array size %d", s.Size)
		}
		validateSchema(s.Elem, path+"[]", result)

	case KindVarArray:
		validateMax(s.Max, fail)
		validateSchema(s.Elem, path+"<>", result)

	case KindOptional:
		validateSchema(s.Elem, path+"*", result)

	case KindStruct:
		seen := make(map[string]bool, len(s.Fields))
		for i, f := range s.Fields {
			if f.Name == "" {
				fail("struct field %d has empty name", i)
			}
			if seen[f.Name] {
				fail("duplicate struct field %q", f.Name)
			}
			seen[f.Name] = true
			validateSchema(f.Schema, path+"."+f.Name, result)
		}

	case KindUnion:
		seen := make(map[int32]bool, len(s.Arms))
		for _, a := range s.Arms {
			if seen[a.Discriminant] {
				fail("duplicate union discriminant %d", a.Discriminant)
			}
			seen[a.Discriminant] = true
			validateSchema(a.Schema, fmt.Sprintf("%s(%d)", path, a.Discriminant), result)
		}
		if s.Default != nil {
			validateSchema(s.Default, path+"(default)", result)
		}

	default:
		fail("unknown schema kind %d", int(s.Kind))
	}
}

func validateMax(max *int64, fail func(string, ...any)) {
	if max != nil && (*max < 0 || *max > math.MaxUint32) {
		fail("invalid bound %d", *max)
	}
}

// ============================================================================
// Value conformance
// ============================================================================

// Conforms reports whether value can be encoded against s.
func Conforms(value any, s *Schema) bool {
	return CheckValue(value, s) == nil
}

// CheckValue is the error-returning form of Conforms. It performs structural
// type and bound checks, recursing into composites, and never modifies value.
func CheckValue(value any, s *Schema) error {
	return checkValue(value, s, "$")
}

func checkValue(value any, s *Schema, path string) error {
	wrap := func(err error) error {
		return fmt.Errorf("%s: %w", path, err)
	}

	if s == nil {
		return wrap(errors.New("schema is nil"))
	}

	switch s.Kind {
	case KindVoid:
		if value != nil {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}

	case KindInt:
		v, err := toInt64(value)
		if err != nil {
			return wrap(err)
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return wrap(ErrOutOfRange)
		}

	case KindUnsignedInt:
		v, err := toUint64(value)
		if err != nil {
			return wrap(err)
		}
		if v > math.MaxUint32 {
			return wrap(ErrOutOfRange)
		}

	case KindHyper:
		if _, err := toInt64(value); err != nil {
			return wrap(err)
		}

	case KindUnsignedHyper:
		if _, err := toUint64(value); err != nil {
			return wrap(err)
		}

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}

	case KindFloat, KindDouble:
		if _, err := toFloat64(value); err != nil {
			return wrap(err)
		}

	case KindQuadruple:
		return wrap(ErrNotSupported)

	case KindEnum:
		if _, err := enumFromValue(value, s); err != nil {
			return wrap(err)
		}

	case KindOpaque:
		data, ok := value.([]byte)
		if !ok {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		if int64(len(data)) != s.Size {
			return wrap(fmt.Errorf("want %d bytes, got %d", s.Size, len(data)))
		}

	case KindVarOpaque:
		data, ok := value.([]byte)
		if !ok {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		if s.Max != nil && int64(len(data)) > *s.Max {
			return wrap(fmt.Errorf("%d bytes exceeds bound %d", len(data), *s.Max))
		}

	case KindString:
		str, ok := value.(string)
		if !ok {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		if !utf8.ValidString(str) {
			return wrap(errors.New("string is not valid UTF-8"))
		}
		if s.Max != nil && int64(len(str)) > *s.Max {
			return wrap(fmt.Errorf("%d bytes exceeds bound %d", len(str), *s.Max))
		}

	case KindArray, KindVarArray:
		rv := reflect.ValueOf(value)
		if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		n := int64(rv.Len())
		if s.Kind == KindArray && n != s.Size {
			return wrap(fmt.Errorf("want %d elements, got %d", s.Size, n))
		}
		if s.Kind == KindVarArray && s.Max != nil && n > *s.Max {
			return wrap(fmt.Errorf("%d elements exceeds bound %d", n, *s.Max))
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkValue(rv.Index(i).Interface(), s.Elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case KindStruct:
		m, ok := value.(map[string]any)
		if !ok {
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		known := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			known[f.Name] = true
			fv, present := m[f.Name]
			if !present && !mayBeAbsent(f.Schema) {
				return wrap(fmt.Errorf("missing field %q", f.Name))
			}
			if err := checkValue(fv, f.Schema, path+"."+f.Name); err != nil {
				return err
			}
		}
		for k := range m {
			if !known[k] {
				return wrap(fmt.Errorf("unknown field %q", k))
			}
		}

	case KindUnion:
		var u Union
		switch v := value.(type) {
		case Union:
			u = v
		case *Union:
			if v == nil {
				return wrap(&TypeError{Kind: s.Kind, Value: value})
			}
			u = *v
		default:
			return wrap(&TypeError{Kind: s.Kind, Value: value})
		}
		armSchema, found := s.arm(u.Discriminant)
		if !found {
			return wrap(&UnknownDiscriminantError{Discriminant: u.Discriminant})
		}
		return checkValue(u.Value, armSchema, fmt.Sprintf("%s(%d)", path, u.Discriminant))

	case KindOptional:
		if value == nil {
			return nil
		}
		return checkValue(value, s.Elem, path+"*")

	case KindConst:
		if value == nil {
			return nil
		}
		v, err := toInt64(value)
		if err != nil {
			return wrap(err)
		}
		if v != int64(s.Value) {
			return wrap(fmt.Errorf("want constant %d, got %d", s.Value, v))
		}

	default:
		return wrap(fmt.Errorf("unknown schema kind %d", int(s.Kind)))
	}

	return nil
}

// ErrNotSupported marks values of kinds the codec cannot encode.
var ErrNotSupported = errors.New("kind not supported")
