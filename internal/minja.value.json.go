package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// JSON error message constants
const (
	ErrMsgNotSerializable = "Object is not JSON serializable"
	ErrMsgBadJSON         = "invalid JSON document"
)

// DumpJSON serializes a value as JSON following Python json.dumps
// conventions: item separator ", " and key separator ": " in compact
// form, or newline-delimited entries when indent is non-negative.
// Non-string dict keys are coerced to their JSON scalar spelling.
func DumpJSON(v Value, indent int, ensureASCII bool) (string, error) {
	var sb strings.Builder
	if err := dumpJSON(&sb, v, indent, ensureASCII, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func dumpJSON(sb *strings.Builder, v Value, indent int, ensureASCII bool, depth int) error {
	switch v.kind {
	case KindNone:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(pyFloatString(v.f))
	case KindString:
		writeJSONString(sb, v.s, ensureASCII)
	case KindArray:
		items := v.arr.Items
		if len(items) == 0 {
			sb.WriteString("[]")
			return nil
		}
		sb.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				writeJSONSeparator(sb, indent, depth+1)
			} else {
				writeJSONNewline(sb, indent, depth+1)
			}
			if err := dumpJSON(sb, item, indent, ensureASCII, depth+1); err != nil {
				return err
			}
		}
		writeJSONNewline(sb, indent, depth)
		sb.WriteByte(']')
	case KindDict:
		entries := v.dict.Entries()
		if len(entries) == 0 {
			sb.WriteString("{}")
			return nil
		}
		sb.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				writeJSONSeparator(sb, indent, depth+1)
			} else {
				writeJSONNewline(sb, indent, depth+1)
			}
			writeJSONString(sb, jsonKeyString(e.Key), ensureASCII)
			sb.WriteString(": ")
			if err := dumpJSON(sb, e.Val, indent, ensureASCII, depth+1); err != nil {
				return err
			}
		}
		writeJSONNewline(sb, indent, depth)
		sb.WriteByte('}')
	default:
		return fmt.Errorf("%s: %s", ErrMsgNotSerializable, v.kind)
	}
	return nil
}

// jsonKeyString spells a dict key as a JSON object key: strings verbatim,
// scalars via their JSON rendering.
func jsonKeyString(key Value) string {
	switch key.kind {
	case KindString:
		return key.s
	case KindNone:
		return "null"
	case KindBool:
		if key.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(key.i, 10)
	case KindFloat:
		return pyFloatString(key.f)
	default:
		return key.ToString()
	}
}

func writeJSONSeparator(sb *strings.Builder, indent, depth int) {
	if indent < 0 {
		sb.WriteString(", ")
		return
	}
	sb.WriteByte(',')
	writeJSONNewline(sb, indent, depth)
}

func writeJSONNewline(sb *strings.Builder, indent, depth int) {
	if indent < 0 {
		return
	}
	sb.WriteByte('\n')
	for i := 0; i < indent*depth; i++ {
		sb.WriteByte(' ')
	}
}

func writeJSONString(sb *strings.Builder, s string, ensureASCII bool) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(sb, `\u%04x`, r)
			case r > 0x7e && ensureASCII:
				if r > 0xffff {
					hi, lo := utf16.EncodeRune(r)
					fmt.Fprintf(sb, `\u%04x\u%04x`, hi, lo)
				} else {
					fmt.Fprintf(sb, `\u%04x`, r)
				}
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

// ParseJSON decodes a JSON document into a Value, preserving object key
// order. Numbers without a fraction or exponent become integers.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", ErrMsgBadJSON, err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("%s: trailing data", ErrMsgBadJSON)
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NoneValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return IntValue(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case json.Delim:
		switch t {
		case '[':
			arr := ArrayValue()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr.arr.Items = append(arr.arr.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return arr, nil
		case '{':
			obj := DictValue()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string")
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.dict.SetString(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return obj, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}
