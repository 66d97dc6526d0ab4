package container

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// The save plist abbreviates the Apple tags: d/dict, k, s, i, r, t/true and
// f/false. Lists are dicts with "_isArr" set and keys k_0..k_n.
const arrayMarker = "_isArr"

// ErrPlist reports a malformed plist document.
var ErrPlist = errors.New("container: malformed plist")

// DecodePlist parses a plist document into nested map[string]any, []any, string,
// int, float64 and bool values.
func DecodePlist(data []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if _, err := expectStart(dec, "plist"); err != nil {
		return nil, err
	}
	start, err := nextStart(dec)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(dec, start)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T, not a dict", ErrPlist, v)
	}
	return m, nil
}

func expectStart(dec *xml.Decoder, name string) (xml.StartElement, error) {
	se, err := nextStart(dec)
	if err != nil {
		return se, err
	}
	if se.Name.Local != name {
		return se, fmt.Errorf("%w: expected <%s>, got <%s>", ErrPlist, name, se.Name.Local)
	}
	return se, nil
}

// nextStart skips to the next start element; an end element first means the
// enclosing element ran out of children and yields io.EOF.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, fmt.Errorf("%w: unexpected end of document", ErrPlist)
			}
			return xml.StartElement{}, fmt.Errorf("%w: %v", ErrPlist, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return xml.StartElement{}, io.EOF
		}
	}
}

func text(dec *xml.Decoder, se xml.StartElement) (string, error) {
	var s string
	if err := dec.DecodeElement(&s, &se); err != nil {
		return "", fmt.Errorf("%w: <%s>: %v", ErrPlist, se.Name.Local, err)
	}
	return s, nil
}

func decodeValue(dec *xml.Decoder, se xml.StartElement) (any, error) {
	switch se.Name.Local {
	case "t", "true":
		return true, dec.Skip()
	case "f", "false":
		return false, dec.Skip()
	case "s", "string":
		return text(dec, se)
	case "i", "integer":
		s, err := text(dec, se)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: <i>%s</i>", ErrPlist, s)
		}
		return n, nil
	case "r", "real":
		s, err := text(dec, se)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: <r>%s</r>", ErrPlist, s)
		}
		return f, nil
	case "d", "dict":
		return decodeDict(dec)
	}
	return nil, fmt.Errorf("%w: unknown tag <%s>", ErrPlist, se.Name.Local)
}

func decodeDict(dec *xml.Decoder) (any, error) {
	m := map[string]any{}
	for {
		ks, err := nextStart(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if ks.Name.Local != "k" && ks.Name.Local != "key" {
			return nil, fmt.Errorf("%w: expected <k>, got <%s>", ErrPlist, ks.Name.Local)
		}
		key, err := text(dec, ks)
		if err != nil {
			return nil, err
		}
		vs, err := nextStart(dec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: key %q has no value", ErrPlist, key)
			}
			return nil, err
		}
		if m[key], err = decodeValue(dec, vs); err != nil {
			return nil, err
		}
	}
	if isArr, _ := m[arrayMarker].(bool); !isArr {
		return m, nil
	}
	list := make([]any, len(m)-1)
	for i := range list {
		v, ok := m["k_"+strconv.Itoa(i)]
		if !ok {
			return nil, fmt.Errorf("%w: array is missing k_%d", ErrPlist, i)
		}
		list[i] = v
	}
	return list, nil
}

// EncodePlist writes m as a save plist document. Dict keys are written in
// natural order (k_2 before k_10), lists as "_isArr" dicts.
func EncodePlist(m map[string]any) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?><plist version="1.0" gjver="2.0">`)
	if err := encodeDict(&b, "dict", m); err != nil {
		return nil, err
	}
	b.WriteString("</plist>")
	return b.Bytes(), nil
}

func encodeValue(b *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case bool:
		if x {
			b.WriteString("<t />")
		} else {
			b.WriteString("<f />")
		}
	case string:
		if x == "" {
			b.WriteString("<s />")
			return nil
		}
		b.WriteString("<s>")
		if err := xml.EscapeText(b, []byte(x)); err != nil {
			return err
		}
		b.WriteString("</s>")
	case int:
		b.WriteString("<i>" + strconv.Itoa(x) + "</i>")
	case int64:
		b.WriteString("<i>" + strconv.FormatInt(x, 10) + "</i>")
	case float64:
		b.WriteString("<r>" + strconv.FormatFloat(x, 'f', -1, 64) + "</r>")
	case map[string]any:
		return encodeDict(b, "d", x)
	case []any:
		m := make(map[string]any, len(x)+1)
		m[arrayMarker] = true
		for i, e := range x {
			m["k_"+strconv.Itoa(i)] = e
		}
		return encodeDict(b, "d", m)
	default:
		return fmt.Errorf("%w: cannot encode %T", ErrPlist, v)
	}
	return nil
}

func encodeDict(b *bytes.Buffer, tag string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })
	b.WriteString("<" + tag + ">")
	for _, k := range keys {
		b.WriteString("<k>")
		if err := xml.EscapeText(b, []byte(k)); err != nil {
			return err
		}
		b.WriteString("</k>")
		if err := encodeValue(b, m[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	b.WriteString("</" + tag + ">")
	return nil
}

// naturalLess orders "_isArr" first, then by the non-digit prefix and the
// trailing number.
func naturalLess(a, b string) bool {
	if a == arrayMarker || b == arrayMarker {
		return a == arrayMarker && b != arrayMarker
	}
	ap, an, aok := splitNum(a)
	bp, bn, bok := splitNum(b)
	if ap != bp || !aok || !bok || an == bn {
		return a < b
	}
	return an < bn
}

func splitNum(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	return s[:i], n, err == nil
}
