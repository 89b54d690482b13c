// Package canonjson implements the canonical JSON encoding used exclusively
// as hash input for the pack self-hash contract. It is a pure function from
// JSON-shaped Go values to bytes: object keys in ascending codepoint order,
// no insignificant whitespace, minimal string escapes.
//
// This is hand-rolled rather than built on encoding/json's own marshaling
// because no standard library guarantee pins key ordering or escape choices
// across versions; the self-hash contract needs a format this package owns
// completely.
package canonjson

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Encode produces the canonical byte encoding of v. Supported value shapes
// are exactly those produced by decoding JSON with json.Unmarshal into
// interface{} (using UseNumber for integers), plus plain Go maps, slices,
// strings, bools, ints, and nil — the shapes packmanifest builds manifests
// from.
func Encode(v any) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf, err := encodeValue(buf, v)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeValue(buf []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		if t {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case string:
		return encodeString(buf, t), nil
	case int:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case int64:
		return strconv.AppendInt(buf, t, 10), nil
	case uint64:
		return strconv.AppendUint(buf, t, 10), nil
	case float64:
		return encodeFloat(buf, t)
	case json.Number:
		return encodeJSONNumber(buf, t)
	case map[string]any:
		return encodeObject(buf, t)
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = vv
		}
		return encodeObject(buf, m)
	case []any:
		return encodeArray(buf, t)
	case []string:
		a := make([]any, len(t))
		for i, s := range t {
			a[i] = s
		}
		return encodeArray(buf, a)
	default:
		return nil, fmt.Errorf("canonjson: unsupported value of type %T", v)
	}
}

func encodeObject(buf []byte, m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = encodeString(buf, k)
		buf = append(buf, ':')
		var err error
		buf, err = encodeValue(buf, m[k])
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, '}')
	return buf, nil
}

func encodeArray(buf []byte, a []any) ([]byte, error) {
	buf = append(buf, '[')
	for i, elem := range a {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = encodeValue(buf, elem)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

// encodeFloat rejects fractional numbers; the manifest never contains any
// (spec.md §4.1: "fractional numbers may be rejected"), but whole-valued
// float64s (as produced by a generic JSON decode) are accepted and emitted
// in their shortest integer decimal form.
func encodeFloat(buf []byte, f float64) ([]byte, error) {
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("canonjson: fractional or non-finite numbers are not representable: %v", f)
	}
	return strconv.AppendInt(buf, int64(f), 10), nil
}

// encodeJSONNumber accepts only integer-valued json.Number text (as
// produced by decoding the manifest's own integer fields with UseNumber)
// and rejects anything containing a fractional or exponent part, per the
// same "fractional numbers may be rejected" rule encodeFloat enforces.
func encodeJSONNumber(buf []byte, n json.Number) ([]byte, error) {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return nil, fmt.Errorf("canonjson: fractional or exponent numbers are not representable: %s", s)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("canonjson: invalid integer literal %q: %w", s, err)
	}
	return strconv.AppendInt(buf, i, 10), nil
}

func encodeString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '"':
			buf = append(buf, `\"`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		default:
			if r < 0x20 {
				buf = append(buf, fmt.Sprintf(`\u%04x`, r)...)
			} else {
				buf = append(buf, s[i:i+size]...)
			}
		}
		i += size
	}
	buf = append(buf, '"')
	return buf
}
