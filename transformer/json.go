package transformer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const prettyIndent = "    "

// PrettyJSON re-serializes a single JSON value with a four-space indent.
// Object keys come out sorted and numbers keep their literal form.
// Arguments are ignored.
func PrettyJSON(_ context.Context, text string, _ map[string]string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: trailing data after JSON value", ErrParse)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", prettyIndent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	return rawLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// rawLineSeparators undoes encoding/json's escaping of U+2028 and U+2029 so
// they come out as written. An escaped backslash is skipped as a pair, so
// the literal text \\u2028 is left alone.
func rawLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch rest := s[i+1:]; {
		case strings.HasPrefix(rest, "u2028"):
			b.WriteRune(0x2028)
			i += 5
		case strings.HasPrefix(rest, "u2029"):
			b.WriteRune(0x2029)
			i += 5
		default:
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
		}
	}
	return b.String()
}

// JSONUnescape decodes JSON string escapes, leniently. It never fails.
//
// A trimmed input that is itself valid JSON is handed to the JSON decoder:
// a string value yields its decoded contents, any other value is returned
// as is. Otherwise one pair of surrounding quotes is stripped and escapes
// are decoded by hand; if that strict pass fails only \" and \\ are replaced.
func JSONUnescape(_ context.Context, text string, _ map[string]string) (string, error) {
	s := strings.TrimSpace(text)

	if json.Valid([]byte(s)) {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			if str, ok := v.(string); ok {
				return str, nil
			}
			return s, nil
		}
	}

	inner := s
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner = s[1 : len(s)-1]
	}

	out, err := unescapeStrict(inner)
	if err != nil {
		out = strings.ReplaceAll(inner, `\"`, `"`)
		out = strings.ReplaceAll(out, `\\`, `\`)
	}
	return out, nil
}

func unescapeStrict(s string) (string, error) {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return "", fmt.Errorf("%w: trailing backslash", ErrInvalidEscape)
		}
		switch c := rs[i]; c {
		case '"', '\\', '/':
			b.WriteRune(c)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, consumed, err := decodeUnicode(rs[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += consumed
		default:
			// Unknown escapes pass through without the backslash.
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

// decodeUnicode reads the hex digits following a \u and returns the rune and
// the number of runes consumed. A high surrogate directly followed by an
// escaped low surrogate is combined into one code point.
func decodeUnicode(rs []rune) (rune, int, error) {
	hi, err := hex4(rs)
	if err != nil {
		return 0, 0, err
	}
	if utf16.IsSurrogate(hi) {
		if len(rs) >= 10 && rs[4] == '\\' && rs[5] == 'u' {
			if lo, err := hex4(rs[6:]); err == nil {
				if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
					return r, 10, nil
				}
			}
		}
		return 0, 0, fmt.Errorf("%w: unpaired surrogate \\u%04x", ErrInvalidEscape, hi)
	}
	if !utf8.ValidRune(hi) {
		return 0, 0, fmt.Errorf("%w: invalid code point \\u%04x", ErrInvalidEscape, hi)
	}
	return hi, 4, nil
}

func hex4(rs []rune) (rune, error) {
	if len(rs) < 4 {
		return 0, fmt.Errorf("%w: \\u escape too short", ErrInvalidEscape)
	}
	n, err := strconv.ParseUint(string(rs[:4]), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad hex digits in \\u escape", ErrInvalidEscape)
	}
	return rune(n), nil
}
