// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// dateLayouts read every shape the date pattern accepts once the value has
// been through NormalizeDate. Fractional seconds need no layout of their own.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Value is a raw stored value together with its key, coerced on demand.
type Value struct {
	raw string
	key *Key
}

// NewValue pairs raw with k.
func NewValue(k *Key, raw string) Value {
	return Value{raw: raw, key: k}
}

// Key returns the owning key.
func (v Value) Key() *Key { return v.key }

// String returns the raw value.
func (v Value) String() string { return v.raw }

var compactOffset = regexp.MustCompile(`([+-]\d{2})(\d{2})$`)

// NormalizeDate rewrites the lenient date-time forms into ISO-8601: a space
// between date and time becomes "T" and a "+hhmm" offset becomes "+hh:mm".
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) <= len(time.DateOnly) {
		return s
	}
	if s[len(time.DateOnly)] == ' ' {
		s = s[:len(time.DateOnly)] + "T" + s[len(time.DateOnly)+1:]
	}
	return compactOffset.ReplaceAllString(s, "$1:$2")
}

// AsDate parses the value as one of the accepted date layouts.
func (v Value) AsDate() (time.Time, error) {
	s := NormalizeDate(v.raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, v.invalid(nil)
}

// AsNumber parses the value as a float.
func (v Value) AsNumber() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
	if err != nil {
		return 0, v.invalid(err)
	}
	return f, nil
}

// AsInt parses the value as an integer.
func (v Value) AsInt() (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(v.raw))
	if err != nil {
		return 0, v.invalid(err)
	}
	return i, nil
}

// AsBool parses true or false, ignoring case.
func (v Value) AsBool() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v.raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, v.invalid(nil)
}

// Split returns the trimmed non-empty parts of the value.
func (v Value) Split(sep string) []string {
	parts := strings.Split(v.raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Lower returns the value in lower case.
func (v Value) Lower() string {
	return strings.ToLower(v.raw)
}

// Contains reports whether the value contains s.
func (v Value) Contains(s string) bool {
	return strings.Contains(v.raw, s)
}

// EqualFold reports whether the value equals s ignoring case.
func (v Value) EqualFold(s string) bool {
	return strings.EqualFold(strings.TrimSpace(v.raw), s)
}

func (v Value) invalid(err error) error {
	name := ""
	if v.key != nil {
		name = v.key.name
		return errors.NewInvalidValue(name, v.raw, v.key.ErrorMessage(v.raw), err)
	}
	return errors.NewInvalidValue(name, v.raw, "invalid value '"+v.raw+"'", err)
}
