// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared string helpers.
package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CapitalizeFirst upper-cases the first rune of s and leaves the remainder
// untouched, so "typingTweaks" becomes "TypingTweaks".
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(s[:size]) + s[size:]
}

// DerivePluginName builds a display name from a directory slug by splitting
// on '-' and '_', capitalizing each segment and joining without separator.
// "typing-tweaks" becomes "TypingTweaks".
func DerivePluginName(slug string) string {
	segments := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})

	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(CapitalizeFirst(seg))
	}
	return sb.String()
}

// StripQuotes removes every single and double quote from s.
func StripQuotes(s string) string {
	return strings.NewReplacer(`"`, "", `'`, "").Replace(s)
}
