package tracestorage

import (
	"encoding/hex"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/collector/pdata/pcommon"

	"github.com/go-faster/traceguard/internal/otelstorage"
)

// Encode encodes span as JSON.
func (span Span) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("trace_id", func(e *jx.Encoder) { e.Str(span.TraceID.Hex()) })
		e.Field("span_id", func(e *jx.Encoder) { e.Str(span.SpanID.Hex()) })
		if !span.ParentSpanID.IsEmpty() {
			e.Field("parent_span_id", func(e *jx.Encoder) { e.Str(span.ParentSpanID.Hex()) })
		}
		e.Field("name", func(e *jx.Encoder) { e.Str(span.Name) })
		e.Field("kind", func(e *jx.Encoder) { e.Int32(span.Kind) })
		e.Field("start", func(e *jx.Encoder) { e.UInt64(uint64(span.Start)) })
		e.Field("end", func(e *jx.Encoder) { e.UInt64(uint64(span.End)) })
		e.Field("status_code", func(e *jx.Encoder) { e.Int32(span.StatusCode) })
		if span.StatusMessage != "" {
			e.Field("status_message", func(e *jx.Encoder) { e.Str(span.StatusMessage) })
		}
		encodeAttrsField(e, "attrs", span.Attrs)
		encodeAttrsField(e, "resource_attrs", span.ResourceAttrs)
		encodeAttrsField(e, "scope_attrs", span.ScopeAttrs)
	})
}

func encodeAttrsField(e *jx.Encoder, key string, attrs Attrs) {
	if attrs.IsZero() || attrs.Len() == 0 {
		return
	}
	e.Field(key, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			attrs.AsMap().Range(func(k string, v pcommon.Value) bool {
				return !e.Field(k, func(e *jx.Encoder) {
					encodeValue(e, v)
				})
			})
		})
	})
}

func encodeValue(e *jx.Encoder, v pcommon.Value) {
	switch v.Type() {
	case pcommon.ValueTypeStr:
		e.Str(v.Str())
	case pcommon.ValueTypeInt:
		e.Int64(v.Int())
	case pcommon.ValueTypeDouble:
		e.Float64(v.Double())
	case pcommon.ValueTypeBool:
		e.Bool(v.Bool())
	case pcommon.ValueTypeBytes:
		e.Base64(v.Bytes().AsRaw())
	case pcommon.ValueTypeMap:
		e.Obj(func(e *jx.Encoder) {
			v.Map().Range(func(k string, v pcommon.Value) bool {
				return !e.Field(k, func(e *jx.Encoder) {
					encodeValue(e, v)
				})
			})
		})
	case pcommon.ValueTypeSlice:
		e.Arr(func(e *jx.Encoder) {
			s := v.Slice()
			for i := 0; i < s.Len(); i++ {
				encodeValue(e, s.At(i))
			}
		})
	default:
		e.Null()
	}
}

// Decode decodes span from JSON.
func (span *Span) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "trace_id":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "trace_id")
			}
			id, err := otelstorage.ParseTraceID(s)
			if err != nil {
				return errors.Wrap(err, "parse trace_id")
			}
			span.TraceID = id
			return nil
		case "span_id":
			id, err := decodeSpanID(d)
			if err != nil {
				return errors.Wrap(err, "span_id")
			}
			span.SpanID = id
			return nil
		case "parent_span_id":
			id, err := decodeSpanID(d)
			if err != nil {
				return errors.Wrap(err, "parent_span_id")
			}
			span.ParentSpanID = id
			return nil
		case "name":
			s, err := d.Str()
			span.Name = s
			return err
		case "kind":
			v, err := d.Int32()
			span.Kind = v
			return err
		case "start":
			v, err := d.UInt64()
			span.Start = pcommon.Timestamp(v)
			return err
		case "end":
			v, err := d.UInt64()
			span.End = pcommon.Timestamp(v)
			return err
		case "status_code":
			v, err := d.Int32()
			span.StatusCode = v
			return err
		case "status_message":
			s, err := d.Str()
			span.StatusMessage = s
			return err
		case "attrs":
			attrs, err := decodeAttrs(d)
			span.Attrs = attrs
			return err
		case "resource_attrs":
			attrs, err := decodeAttrs(d)
			span.ResourceAttrs = attrs
			return err
		case "scope_attrs":
			attrs, err := decodeAttrs(d)
			span.ScopeAttrs = attrs
			return err
		default:
			return d.Skip()
		}
	})
}

func decodeSpanID(d *jx.Decoder) (id SpanID, _ error) {
	s, err := d.Str()
	if err != nil {
		return id, err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, errors.Wrap(err, "decode hex")
	}
	if len(raw) != len(id) {
		return id, errors.Errorf("invalid span ID length %d", len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func decodeAttrs(d *jx.Decoder) (Attrs, error) {
	m := pcommon.NewMap()
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		return decodeMapKey(d, m, key)
	}); err != nil {
		return Attrs{}, err
	}
	return Attrs(m), nil
}

func decodeMapKey(d *jx.Decoder, m pcommon.Map, key string) error {
	switch d.Next() {
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "string")
		}
		m.PutStr(key, v)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return errors.Wrap(err, "number")
		}
		if n.IsInt() {
			v, err := n.Int64()
			if err != nil {
				return errors.Wrap(err, "int")
			}
			m.PutInt(key, v)
		} else {
			v, err := n.Float64()
			if err != nil {
				return errors.Wrap(err, "float")
			}
			m.PutDouble(key, v)
		}
	case jx.Bool:
		v, err := d.Bool()
		if err != nil {
			return errors.Wrap(err, "bool")
		}
		m.PutBool(key, v)
	case jx.Null:
		m.PutEmpty(key)
		return d.Null()
	default:
		return setValue(d, m.PutEmpty(key))
	}
	return nil
}

func setValue(d *jx.Decoder, v pcommon.Value) error {
	switch d.Next() {
	case jx.Array:
		slice := v.SetEmptySlice()
		return d.Arr(func(d *jx.Decoder) error {
			return setValue(d, slice.AppendEmpty())
		})
	case jx.Object:
		m := v.SetEmptyMap()
		return d.Obj(func(d *jx.Decoder, key string) error {
			return decodeMapKey(d, m, key)
		})
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "string")
		}
		v.SetStr(s)
		return nil
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return errors.Wrap(err, "number")
		}
		if n.IsInt() {
			i, err := n.Int64()
			if err != nil {
				return errors.Wrap(err, "int")
			}
			v.SetInt(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return errors.Wrap(err, "float")
		}
		v.SetDouble(f)
		return nil
	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return errors.Wrap(err, "bool")
		}
		v.SetBool(b)
		return nil
	case jx.Null:
		return d.Null()
	default:
		return errors.Errorf("unexpected type %v", d.Next())
	}
}
