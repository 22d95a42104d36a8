// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unescape interprets JavaScript escape sequences in the body of a string
// or template literal. Malformed sequences are kept verbatim.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if r, n, ok := hexRune(s[i+1:], 2); ok {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteString(`\x`)
			}
		case 'u':
			if strings.HasPrefix(s[i+1:], "{") {
				end := strings.IndexByte(s[i+1:], '}')
				if end > 1 {
					if v, err := strconv.ParseUint(s[i+2:i+1+end], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
						sb.WriteRune(rune(v))
						i += end + 1
						continue
					}
				}
				sb.WriteString(`\u`)
			} else if r, n, ok := hexRune(s[i+1:], 4); ok {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteString(`\u`)
			}
		default:
			// \\ \' \" \` \$ and any other character stand for themselves
			sb.WriteByte(e)
		}
	}

	return sb.String()
}

func hexRune(s string, width int) (rune, int, bool) {
	if len(s) < width {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), width, true
}
