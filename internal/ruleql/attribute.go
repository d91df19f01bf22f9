package ruleql

import (
	"strconv"
	"strings"

	"github.com/go-faster/traceguard/internal/lexerql"
)

// AttributeScope is an attribute scope.
type AttributeScope int

const (
	ScopeNone AttributeScope = iota
	ScopeSpan
	ScopeResource
)

// SpanProperty is an intrinsic span field.
type SpanProperty int

const (
	// SpanAttribute looks up a value in span attribute maps.
	SpanAttribute SpanProperty = iota
	SpanName
	ServiceName
	SpanDuration
	SpanStatus
	SpanKind
	SpanParent
)

// Attribute addresses a span field or a span attribute.
type Attribute struct {
	Name  string
	Scope AttributeScope
	Prop  SpanProperty
}

// String implements fmt.Stringer.
func (a Attribute) String() string {
	switch a.Prop {
	case SpanName:
		return "span.name"
	case ServiceName:
		return "span.serviceName"
	case SpanDuration:
		return "span.duration"
	case SpanStatus:
		return "span.status"
	case SpanKind:
		return "span.kind"
	case SpanParent:
		return "span.parent"
	default:
		var sb strings.Builder
		switch a.Scope {
		case ScopeSpan:
			sb.WriteString("span.")
		case ScopeResource:
			sb.WriteString("resource.")
		}
		if isIdent(a.Name) {
			sb.WriteString(a.Name)
		} else {
			sb.WriteString("attributes[")
			sb.WriteString(strconv.Quote(a.Name))
			sb.WriteString("]")
		}
		return sb.String()
	}
}

func isIdent(s string) bool {
	for i, r := range s {
		if i == 0 && !lexerql.IsIdentStartRune(r) {
			return false
		}
		if i > 0 && !lexerql.IsIdentRune(r) && r != '.' {
			return false
		}
	}
	return s != ""
}

// ValueType returns value type of expression.
func (a Attribute) ValueType() StaticType {
	switch a.Prop {
	case SpanName, ServiceName, SpanStatus, SpanKind:
		return TypeString
	case SpanDuration:
		return TypeDuration
	default:
		// SpanParent is dynamic: absent for roots, true otherwise.
		return TypeAttribute
	}
}

// ParseAttribute maps a dotted identifier onto an attribute selector.
//
// Identifiers prefixed with "span." or "resource." are scoped lookups,
// intrinsic field names map to span properties, anything else addresses
// an attribute in any scope.
func ParseAttribute(text string) Attribute {
	attr := text
	scope := ScopeNone
	if rest, ok := strings.CutPrefix(attr, "span."); ok {
		scope, attr = ScopeSpan, rest
	} else if rest, ok := strings.CutPrefix(attr, "resource."); ok {
		scope, attr = ScopeResource, rest
	}

	switch attr {
	case "name", "operationName":
		return Attribute{Prop: SpanName}
	case "serviceName":
		return Attribute{Prop: ServiceName}
	case "duration":
		return Attribute{Prop: SpanDuration}
	case "status":
		return Attribute{Prop: SpanStatus}
	case "kind":
		return Attribute{Prop: SpanKind}
	case "parent":
		return Attribute{Prop: SpanParent}
	default:
		return Attribute{Name: attr, Scope: scope}
	}
}
