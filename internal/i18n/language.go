// Package i18n owns the active language of a visitor, its text direction,
// and resolution of dotted translation keys against the bundled catalogs.
package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Code identifies one of the supported content languages.
type Code string

const (
	English Code = "en"
	Arabic  Code = "ar"

	// DefaultCode is used whenever no valid preference exists.
	DefaultCode = English
)

// Direction is the text flow of a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// ErrUnknownLanguage is returned when a value is not a supported Code.
var ErrUnknownLanguage = errors.New("unknown language")

// Codes returns the supported codes in display order.
func Codes() []Code {
	return []Code{English, Arabic}
}

// ParseCode accepts exactly "en" or "ar"; no trimming or case folding.
func ParseCode(value string) (Code, error) {
	switch Code(value) {
	case English:
		return English, nil
	case Arabic:
		return Arabic, nil
	}
	return "", ErrUnknownLanguage
}

// Valid reports whether c is a supported code.
func (c Code) Valid() bool {
	_, err := ParseCode(string(c))
	return err == nil
}

// Direction is rtl for Arabic and ltr for everything else.
func (c Code) Direction() Direction {
	if c == Arabic {
		return RTL
	}
	return LTR
}

// Tag returns the BCP 47 tag for c.
func (c Code) Tag() language.Tag {
	if c == Arabic {
		return language.Arabic
	}
	return language.English
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Negotiate picks the best supported code for an Accept-Language header.
// An empty or malformed header yields DefaultCode.
func Negotiate(acceptLanguage string) Code {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return DefaultCode
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultCode
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultCode
	}
	return Codes()[index]
}
