// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

// reprWriter is implemented by containers that render themselves.
type reprWriter interface {
	writeRepr(b *strings.Builder)
}

// Repr returns the legacy textual representation of v:
//
//   - Map as {k1: v1, k2: v2} in bucket order
//   - []any as [v1, v2]
//   - string as a quoted byte string, Unicode as a u-prefixed quoted
//     unicode string, with the legacy quote selection and escapes
//   - bool as True or False, nil as None
//   - integers in decimal, floats in the legacy shortest repr
//
// Other values are formatted with fmt.
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v)
	return b.String()
}

func writeRepr(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("None")
	case reprWriter:
		v.writeRepr(b)
	case Unicode:
		b.WriteByte('u')
		writeUnicode(b, string(v))
	case string:
		writeBytes(b, v)
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case *big.Int:
		b.WriteString(v.String())
	case float32:
		b.WriteString(formatFloat(float64(v)))
	case float64:
		b.WriteString(formatFloat(v))
	case []any:
		writeList(b, v)
	case []string:
		writeList(b, v)
	case []Unicode:
		writeList(b, v)
	default:
		fmt.Fprint(b, v)
	}
}

func writeList[T any](b *strings.Builder, l []T) {
	b.WriteByte('[')
	for i, e := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, e)
	}
	b.WriteByte(']')
}

func (m *Map[K, E]) writeRepr(b *strings.Builder) {
	b.WriteByte('{')
	for i, ke := range m.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, ke.Key)
		b.WriteString(": ")
		writeRepr(b, ke.Elem)
	}
	b.WriteByte('}')
}

// quoteFor picks single quotes unless s contains a single quote and no
// double quote.
func quoteFor(s string) byte {
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		return '"'
	}
	return '\''
}

func writeHex(b *strings.Builder, prefix string, c uint32, width int) {
	b.WriteString(prefix)
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(c>>shift)&0xf])
	}
}

// writeBytes writes s quoted and escaped as a byte string.
func writeBytes(b *strings.Builder, s string) {
	quote := quoteFor(s)
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < ' ' || c >= 0x7f:
			writeHex(b, `\x`, uint32(c), 2)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
}

// writeUnicode writes s quoted and escaped as a unicode string.
func writeUnicode(b *strings.Builder, s string) {
	quote := quoteFor(s)
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x10000:
			writeHex(b, `\U`, uint32(r), 8)
		case r >= 0x100:
			writeHex(b, `\u`, uint32(r), 4)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < ' ' || r >= 0x7f:
			writeHex(b, `\x`, uint32(r), 2)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
}

// formatFloat formats f with the shortest digits that round trip,
// switching to exponent notation when the decimal point would sit more
// than 16 digits right or 4 digits left of the first digit.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	var b strings.Builder
	if s[0] == '-' {
		b.WriteByte('-')
		s = s[1:]
	}
	mant, exp, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	e, _ := strconv.Atoi(exp)
	decpt := e + 1

	switch {
	case decpt <= -4 || decpt > 16:
		b.WriteString(digits[:1])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if e < 0 {
			b.WriteByte('-')
			e = -e
		} else {
			b.WriteByte('+')
		}
		if e < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(e))
	case decpt <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -decpt))
		b.WriteString(digits)
	case decpt >= len(digits):
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", decpt-len(digits)))
		b.WriteString(".0")
	default:
		b.WriteString(digits[:decpt])
		b.WriteByte('.')
		b.WriteString(digits[decpt:])
	}
	return b.String()
}
