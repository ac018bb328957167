// Package schema implements a declarative, schema-driven XDR codec.
//
// Instead of hand-written per-type Encode/Decode methods, a value is encoded
// against a Schema: a closed tagged union of primitive, wide and composite
// descriptors mirroring the RFC 4506 type language. It is used for protocols
// and structures that have no bespoke codec, and as an independent cross-check
// of hand-written encoders in tests.
//
// Value mapping:
//
//	void            nil
//	int             int32 (any Go integer, or integral float, in range)
//	unsigned_int    uint32
//	boolean         bool
//	hyper           int64
//	unsigned_hyper  uint64
//	float           float32
//	double          float64
//	quadruple       not supported (ErrNotImplemented)
//	enum            int32 (or the member name as a string when encoding)
//	opaque, vopaque []byte
//	string          string
//	array, varray   []any (any slice type when encoding)
//	struct          map[string]any
//	union           Union{Discriminant, Value}
//	optional        nil or the element value
//	const           no wire representation; decodes to the constant
package schema

import "fmt"

// Kind identifies the shape of a Schema.
type Kind int

const (
	KindVoid Kind = iota
	KindInt
	KindUnsignedInt
	KindBoolean
	KindHyper
	KindUnsignedHyper
	KindFloat
	KindDouble
	KindQuadruple
	KindEnum
	KindOpaque
	KindVarOpaque
	KindString
	KindArray
	KindVarArray
	KindStruct
	KindUnion
	KindOptional
	KindConst
)

var kindNames = map[Kind]string{
	KindVoid:          "void",
	KindInt:           "int",
	KindUnsignedInt:   "unsigned_int",
	KindBoolean:       "boolean",
	KindHyper:         "hyper",
	KindUnsignedHyper: "unsigned_hyper",
	KindFloat:         "float",
	KindDouble:        "double",
	KindQuadruple:     "quadruple",
	KindEnum:          "enum",
	KindOpaque:        "opaque",
	KindVarOpaque:     "vopaque",
	KindString:        "string",
	KindArray:         "array",
	KindVarArray:      "varray",
	KindStruct:        "struct",
	KindUnion:         "union",
	KindOptional:      "optional",
	KindConst:         "const",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Schema describes one XDR type. Only the fields relevant to Kind are used.
type Schema struct {
	Kind Kind

	// Size is the exact length of opaque[size] and array[elem,size].
	Size int64

	// Max bounds vopaque, string and varray. Nil means unbounded.
	Max *int64

	// Enum lists the members of an enum.
	Enum []EnumValue

	// Elem is the element schema of array, varray and optional.
	Elem *Schema

	// Fields are the ordered members of a struct.
	Fields []Field

	// Arms and Default describe a union. Default may be nil.
	Arms    []Arm
	Default *Schema

	// Value is the constant carried by const.
	Value int32
}

// EnumValue is one named member of an enum.
type EnumValue struct {
	Name  string
	Value int32
}

// Field is one named struct member.
type Field struct {
	Name   string
	Schema *Schema
}

// Arm is one union case.
type Arm struct {
	Discriminant int32
	Schema       *Schema
}

// Union is the Go value of a union: the discriminant selects the arm and
// Value is encoded against it. The discriminant is always explicit because the
// same Go value may legally appear in more than one arm.
type Union struct {
	Discriminant int32
	Value        any
}

// String renders the schema in a compact XDR-like notation.
func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindOpaque:
		return fmt.Sprintf("opaque[%d]", s.Size)
	case KindVarOpaque:
		return "opaque<" + maxString(s.Max) + ">"
	case KindString:
		return "string<" + maxString(s.Max) + ">"
	case KindArray:
		return fmt.Sprintf("%s[%d]", s.Elem, s.Size)
	case KindVarArray:
		return fmt.Sprintf("%s<%s>", s.Elem, maxString(s.Max))
	case KindOptional:
		return fmt.Sprintf("*%s", s.Elem)
	case KindConst:
		return fmt.Sprintf("const(%d)", s.Value)
	case KindStruct:
		return fmt.Sprintf("struct{%d fields}", len(s.Fields))
	case KindUnion:
		return fmt.Sprintf("union{%d arms}", len(s.Arms))
	default:
		return s.Kind.String()
	}
}

func maxString(m *int64) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%d", *m)
}

// arm returns the schema selected by disc, falling back to the default arm.
func (s *Schema) arm(disc int32) (*Schema, bool) {
	for _, a := range s.Arms {
		if a.Discriminant == disc {
			return a.Schema, true
		}
	}
	if s.Default != nil {
		return s.Default, true
	}
	return nil, false
}

// enumValue resolves a member name.
func (s *Schema) enumValue(name string) (int32, bool) {
	for _, e := range s.Enum {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

func (s *Schema) hasEnumValue(v int32) bool {
	for _, e := range s.Enum {
		if e.Value == v {
			return true
		}
	}
	return false
}

// ============================================================================
// Builders
// ============================================================================

func Void() *Schema          { return &Schema{Kind: KindVoid} }
func Int() *Schema           { return &Schema{Kind: KindInt} }
func UnsignedInt() *Schema   { return &Schema{Kind: KindUnsignedInt} }
func Bool() *Schema          { return &Schema{Kind: KindBoolean} }
func Hyper() *Schema         { return &Schema{Kind: KindHyper} }
func UnsignedHyper() *Schema { return &Schema{Kind: KindUnsignedHyper} }
func Float() *Schema         { return &Schema{Kind: KindFloat} }
func Double() *Schema        { return &Schema{Kind: KindDouble} }
func Quadruple() *Schema     { return &Schema{Kind: KindQuadruple} }

// Enum builds an enum from its members.
func Enum(values ...EnumValue) *Schema {
	return &Schema{Kind: KindEnum, Enum: values}
}

// Opaque builds fixed-length opaque[size].
func Opaque(size int64) *Schema {
	return &Schema{Kind: KindOpaque, Size: size}
}

// VarOpaque builds an unbounded opaque<>.
func VarOpaque() *Schema { return &Schema{Kind: KindVarOpaque} }

// VarOpaqueMax builds opaque<max>.
func VarOpaqueMax(max int64) *Schema {
	return &Schema{Kind: KindVarOpaque, Max: &max}
}

// String builds an unbounded string<>.
func String() *Schema { return &Schema{Kind: KindString} }

// StringMax builds string<max>.
func StringMax(max int64) *Schema {
	return &Schema{Kind: KindString, Max: &max}
}

// Array builds elem[size].
func Array(elem *Schema, size int64) *Schema {
	return &Schema{Kind: KindArray, Elem: elem, Size: size}
}

// VarArray builds an unbounded elem<>.
func VarArray(elem *Schema) *Schema {
	return &Schema{Kind: KindVarArray, Elem: elem}
}

// VarArrayMax builds elem<max>.
func VarArrayMax(elem *Schema, max int64) *Schema {
	return &Schema{Kind: KindVarArray, Elem: elem, Max: &max}
}

// Struct builds a struct from ordered fields.
func Struct(fields ...Field) *Schema {
	return &Schema{Kind: KindStruct, Fields: fields}
}

// F is shorthand for a struct Field.
func F(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// UnionOf builds a union. def may be nil when there is no default arm.
func UnionOf(def *Schema, arms ...Arm) *Schema {
	return &Schema{Kind: KindUnion, Arms: arms, Default: def}
}

// Case is shorthand for a union Arm.
func Case(disc int32, s *Schema) Arm {
	return Arm{Discriminant: disc, Schema: s}
}

// Optional builds *elem.
func Optional(elem *Schema) *Schema {
	return &Schema{Kind: KindOptional, Elem: elem}
}

// Const builds a constant.
func Const(v int32) *Schema {
	return &Schema{Kind: KindConst, Value: v}
}
