package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/marmos91/nfs4wire/internal/protocol/xdr"
)

// ErrNonIntegral is returned when a floating-point value with a fractional
// part is supplied for an integer slot.
var ErrNonIntegral = errors.New("non-integral value for integer type")

// ErrOutOfRange is returned when an integer does not fit the target type.
var ErrOutOfRange = errors.New("value out of range")

// UnknownDiscriminantError is returned when a union discriminant matches no
// arm and the union has no default.
type UnknownDiscriminantError struct {
	Discriminant int32
}

func (e *UnknownDiscriminantError) Error() string {
	return fmt.Sprintf("no union arm for discriminant %d", e.Discriminant)
}

// TypeError reports a Go value whose type does not fit the schema.
type TypeError struct {
	Kind  Kind
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot use %T as %s", e.Value, e.Kind)
}

// Marshal encodes value against s and returns the bytes.
func Marshal(value any, s *Schema) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, value, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data against s. Trailing bytes are an error.
func Unmarshal(data []byte, s *Schema) (any, error) {
	r := bytes.NewReader(data)
	v, err := Decode(r, s)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after %s", r.Len(), s)
	}
	return v, nil
}

// ============================================================================
// Encode
// ============================================================================

// Encode appends the XDR encoding of value, described by s, to buf.
func Encode(buf *bytes.Buffer, value any, s *Schema) error {
	if s == nil {
		return errors.New("nil schema")
	}

	switch s.Kind {
	case KindVoid:
		return nil

	case KindInt:
		v, err := toInt64(value)
		if err != nil {
			return err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("int %d: %w", v, ErrOutOfRange)
		}
		return xdr.WriteInt32(buf, int32(v))

	case KindUnsignedInt:
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		if v > math.MaxUint32 {
			return fmt.Errorf("unsigned_int %d: %w", v, ErrOutOfRange)
		}
		return xdr.WriteUint32(buf, uint32(v))

	case KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		return xdr.WriteBool(buf, b)

	case KindHyper:
		v, err := toInt64(value)
		if err != nil {
			return err
		}
		return xdr.WriteInt64(buf, v)

	case KindUnsignedHyper:
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		return xdr.WriteUint64(buf, v)

	case KindFloat:
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		return xdr.WriteFloat32(buf, float32(f))

	case KindDouble:
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		return xdr.WriteFloat64(buf, f)

	case KindQuadruple:
		return xdr.WriteQuadruple(buf, [16]byte{})

	case KindEnum:
		v, err := enumFromValue(value, s)
		if err != nil {
			return err
		}
		return xdr.WriteInt32(buf, v)

	case KindOpaque:
		data, ok := value.([]byte)
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		if int64(len(data)) != s.Size {
			return fmt.Errorf("opaque[%d]: got %d bytes", s.Size, len(data))
		}
		return xdr.WriteFixedOpaque(buf, data)

	case KindVarOpaque:
		data, ok := value.([]byte)
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		if s.Max != nil && int64(len(data)) > *s.Max {
			return fmt.Errorf("opaque<%d>: got %d bytes", *s.Max, len(data))
		}
		return xdr.WriteXDROpaque(buf, data)

	case KindString:
		str, ok := value.(string)
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		if s.Max != nil && int64(len(str)) > *s.Max {
			return fmt.Errorf("string<%d>: got %d bytes", *s.Max, len(str))
		}
		return xdr.WriteXDRString(buf, str)

	case KindArray, KindVarArray:
		return encodeArray(buf, value, s)

	case KindStruct:
		m, ok := value.(map[string]any)
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		for _, f := range s.Fields {
			fv, present := m[f.Name]
			if !present && !mayBeAbsent(f.Schema) {
				return fmt.Errorf("struct field %q missing", f.Name)
			}
			if err := Encode(buf, fv, f.Schema); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
		return nil

	case KindUnion:
		u, ok := value.(Union)
		if !ok {
			if p, isPtr := value.(*Union); isPtr && p != nil {
				u, ok = *p, true
			}
		}
		if !ok {
			return &TypeError{Kind: s.Kind, Value: value}
		}
		armSchema, found := s.arm(u.Discriminant)
		if !found {
			return &UnknownDiscriminantError{Discriminant: u.Discriminant}
		}
		if err := xdr.WriteInt32(buf, u.Discriminant); err != nil {
			return err
		}
		if err := Encode(buf, u.Value, armSchema); err != nil {
			return fmt.Errorf("union arm %d: %w", u.Discriminant, err)
		}
		return nil

	case KindOptional:
		if value == nil {
			return xdr.WriteBool(buf, false)
		}
		if err := xdr.WriteBool(buf, true); err != nil {
			return err
		}
		return Encode(buf, value, s.Elem)

	case KindConst:
		return nil

	default:
		return fmt.Errorf("unknown schema kind %s", s.Kind)
	}
}

func encodeArray(buf *bytes.Buffer, value any, s *Schema) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return &TypeError{Kind: s.Kind, Value: value}
	}
	n := int64(rv.Len())

	if s.Kind == KindArray {
		if n != s.Size {
			return fmt.Errorf("array[%d]: got %d elements", s.Size, n)
		}
	} else {
		if s.Max != nil && n > *s.Max {
			return fmt.Errorf("array<%d>: got %d elements", *s.Max, n)
		}
		if err := xdr.WriteUint32(buf, uint32(n)); err != nil {
			return err
		}
	}

	for i := 0; i < rv.Len(); i++ {
		if err := Encode(buf, rv.Index(i).Interface(), s.Elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ============================================================================
// Decode
// ============================================================================

// Decode reads one value described by s from r.
func Decode(r io.Reader, s *Schema) (any, error) {
	if s == nil {
		return nil, errors.New("nil schema")
	}

	switch s.Kind {
	case KindVoid:
		return nil, nil
	case KindInt:
		return xdr.DecodeInt32(r)
	case KindUnsignedInt:
		return xdr.DecodeUint32(r)
	case KindBoolean:
		return xdr.DecodeBool(r)
	case KindHyper:
		return xdr.DecodeInt64(r)
	case KindUnsignedHyper:
		return xdr.DecodeUint64(r)
	case KindFloat:
		return xdr.DecodeFloat32(r)
	case KindDouble:
		return xdr.DecodeFloat64(r)
	case KindQuadruple:
		_, err := xdr.DecodeQuadruple(r)
		return nil, err

	case KindEnum:
		v, err := xdr.DecodeInt32(r)
		if err != nil {
			return nil, err
		}
		if !s.hasEnumValue(v) {
			return nil, fmt.Errorf("enum value %d not defined", v)
		}
		return v, nil

	case KindOpaque:
		if s.Size < 0 || s.Size > math.MaxUint32 {
			return nil, fmt.Errorf("invalid opaque size %d", s.Size)
		}
		return xdr.DecodeFixedOpaque(r, uint32(s.Size))

	case KindVarOpaque:
		return xdr.DecodeOpaqueMax(r, limitOf(s.Max, xdr.MaxOpaqueLength))

	case KindString:
		return xdr.DecodeStringMax(r, limitOf(s.Max, xdr.MaxOpaqueLength))

	case KindArray:
		if s.Size < 0 || s.Size > math.MaxUint32 {
			return nil, fmt.Errorf("invalid array size %d", s.Size)
		}
		return xdr.DecodeArray(r, uint32(s.Size), elemDecoder(s.Elem))

	case KindVarArray:
		return xdr.DecodeVarArray(r, limitOf(s.Max, xdr.MaxOpaqueLength), elemDecoder(s.Elem))

	case KindStruct:
		out := make(map[string]any, len(s.Fields))
		for _, f := range s.Fields {
			v, err := Decode(r, f.Schema)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			out[f.Name] = v
		}
		return out, nil

	case KindUnion:
		disc, err := xdr.DecodeInt32(r)
		if err != nil {
			return nil, err
		}
		armSchema, found := s.arm(disc)
		if !found {
			return nil, &UnknownDiscriminantError{Discriminant: disc}
		}
		v, err := Decode(r, armSchema)
		if err != nil {
			return nil, fmt.Errorf("union arm %d: %w", disc, err)
		}
		return Union{Discriminant: disc, Value: v}, nil

	case KindOptional:
		present, err := xdr.DecodeBool(r)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return Decode(r, s.Elem)

	case KindConst:
		return s.Value, nil

	default:
		return nil, fmt.Errorf("unknown schema kind %s", s.Kind)
	}
}

// mayBeAbsent reports whether a struct field of this schema can be omitted
// from the value map.
func mayBeAbsent(s *Schema) bool {
	if s == nil {
		return false
	}
	return s.Kind == KindVoid || s.Kind == KindOptional || s.Kind == KindConst
}

func elemDecoder(elem *Schema) func(io.Reader) (any, error) {
	return func(r io.Reader) (any, error) {
		return Decode(r, elem)
	}
}

func limitOf(max *int64, fallback uint32) uint32 {
	if max == nil || *max < 0 || *max > int64(fallback) {
		return fallback
	}
	return uint32(*max)
}

// ============================================================================
// Numeric conversion
// ============================================================================

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%d: %w", v, ErrOutOfRange)
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d: %w", v, ErrOutOfRange)
		}
		return int64(v), nil
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	default:
		return 0, &TypeError{Kind: KindHyper, Value: value}
	}
}

func toUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case float32, float64:
		f, _ := toFloat64(v)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%v: %w", f, ErrNonIntegral)
		}
		if f < 0 || f >= math.MaxUint64 {
			return 0, fmt.Errorf("%v: %w", f, ErrOutOfRange)
		}
		return uint64(f), nil
	default:
		i, err := toInt64(value)
		if err != nil {
			return 0, err
		}
		if i < 0 {
			return 0, fmt.Errorf("%d: %w", i, ErrOutOfRange)
		}
		return uint64(i), nil
	}
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v: %w", f, ErrNonIntegral)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v: %w", f, ErrOutOfRange)
	}
	return int64(f), nil
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		i, err := toInt64(value)
		if err != nil {
			return 0, &TypeError{Kind: KindDouble, Value: value}
		}
		return float64(i), nil
	}
}

func enumFromValue(value any, s *Schema) (int32, error) {
	if name, ok := value.(string); ok {
		v, found := s.enumValue(name)
		if !found {
			return 0, fmt.Errorf("enum member %q not defined", name)
		}
		return v, nil
	}
	i, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 || !s.hasEnumValue(int32(i)) {
		return 0, fmt.Errorf("enum value %d not defined", i)
	}
	return int32(i), nil
}
