package ruleql

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
)

// StaticType defines static type.
type StaticType int

const (
	TypeAttribute StaticType = iota
	TypeString
	TypeInt
	TypeNumber
	TypeBool
	TypeNil
	TypeDuration
	TypeList
)

// String implements fmt.Stringer.
func (s StaticType) String() string {
	switch s {
	case TypeAttribute:
		return "Attribute"
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeNumber:
		return "Number"
	case TypeBool:
		return "Bool"
	case TypeNil:
		return "Nil"
	case TypeDuration:
		return "Duration"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("<unknown type %d>", s)
	}
}

// CheckOperand whether a and b are valid comparison operands.
func (s StaticType) CheckOperand(s2 StaticType) bool {
	return s == s2 ||
		s == TypeAttribute || s2 == TypeAttribute ||
		(s.IsNumeric() && s2.IsNumeric())
}

// IsNumeric returns true if type is numeric.
func (s StaticType) IsNumeric() bool {
	switch s {
	case TypeInt, TypeNumber, TypeDuration:
		return true
	default:
		return false
	}
}

// IsOrdered returns true if values of the type have a defined order.
func (s StaticType) IsOrdered() bool {
	return s.IsNumeric() || s == TypeString || s == TypeAttribute
}

// Static is a constant value.
type Static struct {
	Type StaticType
	Data uint64 // stores everything, except strings and lists
	Str  string
	List []Static
}

// ValueType returns value type of expression.
func (s Static) ValueType() StaticType {
	return s.Type
}

func (s *Static) resetTo(typ StaticType) {
	s.Type = typ
	s.Data = 0
	s.Str = ""
	s.List = nil
}

// SetString sets String value.
func (s *Static) SetString(v string) {
	s.resetTo(TypeString)
	s.Str = v
}

// SetInt sets Int value.
func (s *Static) SetInt(v int64) {
	s.resetTo(TypeInt)
	s.Data = uint64(v)
}

// SetNumber sets Number value.
func (s *Static) SetNumber(v float64) {
	s.resetTo(TypeNumber)
	s.Data = math.Float64bits(v)
}

// SetBool sets Bool value.
func (s *Static) SetBool(v bool) {
	s.resetTo(TypeBool)
	if v {
		s.Data = 1
	}
}

// SetNil sets Nil value.
func (s *Static) SetNil() {
	s.resetTo(TypeNil)
}

// SetDuration sets Duration value.
func (s *Static) SetDuration(v time.Duration) {
	s.resetTo(TypeDuration)
	s.Data = uint64(v)
}

// SetList sets List value.
func (s *Static) SetList(elems []Static) {
	s.resetTo(TypeList)
	s.List = elems
}

// SetOTELValue sets value from OpenTelemetry attribute value.
//
// Returns false, if value type is not representable as Static.
func (s *Static) SetOTELValue(v pcommon.Value) bool {
	switch v.Type() {
	case pcommon.ValueTypeStr:
		s.SetString(v.Str())
	case pcommon.ValueTypeInt:
		s.SetInt(v.Int())
	case pcommon.ValueTypeDouble:
		s.SetNumber(v.Double())
	case pcommon.ValueTypeBool:
		s.SetBool(v.Bool())
	default:
		return false
	}
	return true
}

// AsString returns String value.
func (s Static) AsString() string {
	return s.Str
}

// AsInt returns Int value.
func (s Static) AsInt() int64 {
	return int64(s.Data)
}

// AsNumber returns Number value.
func (s Static) AsNumber() float64 {
	return math.Float64frombits(s.Data)
}

// AsBool returns Bool value.
func (s Static) AsBool() bool {
	return s.Data != 0
}

// AsDuration returns Duration value.
func (s Static) AsDuration() time.Duration {
	return time.Duration(s.Data)
}

// IsNil returns true, if static is Nil.
func (s Static) IsNil() bool {
	return s.Type == TypeNil
}

// AsFloat returns numeric value as float64.
func (s Static) AsFloat() float64 {
	switch s.Type {
	case TypeInt:
		return float64(s.AsInt())
	case TypeDuration:
		return float64(s.AsDuration())
	default:
		return s.AsNumber()
	}
}

// Compare compares two statics.
//
// Returns false, if values are not comparable: comparisons across
// incompatible kinds never match.
func (s Static) Compare(b Static) (int, bool) {
	switch {
	case s.Type.IsNumeric() && b.Type.IsNumeric():
		return cmp.Compare(s.AsFloat(), b.AsFloat()), true
	case s.Type == TypeString && b.Type == TypeString:
		return strings.Compare(s.Str, b.Str), true
	case s.Type == TypeBool && b.Type == TypeBool:
		return cmp.Compare(s.Data, b.Data), true
	case s.Type == TypeNil && b.Type == TypeNil:
		return 0, true
	default:
		return 0, false
	}
}

// String implements fmt.Stringer.
//
// The result is valid RuleQL and parses back to an equal Static.
func (s Static) String() string {
	switch s.Type {
	case TypeString:
		return strconv.Quote(s.Str)
	case TypeInt:
		return strconv.FormatInt(s.AsInt(), 10)
	case TypeNumber:
		v := s.AsNumber()
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case TypeBool:
		if s.AsBool() {
			return "true"
		}
		return "false"
	case TypeNil:
		return "nil"
	case TypeDuration:
		return s.AsDuration().String()
	case TypeList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range s.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return fmt.Sprintf("<%s>", s.Type)
	}
}
