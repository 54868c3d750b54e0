// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	keywordSuffix = ".keyword"

	// DefaultSeparator splits value lists.
	DefaultSeparator = ","
	// SortSeparator splits a sort entry into name and direction.
	SortSeparator = ":"
)

const (
	datePart      = `\d{4}(-\d{2}(-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?(Z|[+-]\d{2}:?\d{2})?)?)?)?`
	numberPart    = `-?\d+(\.\d+)?`
	patternDate   = `^(` + datePart + `)?(,(` + datePart + `)?)*$`
	patternNumber = `^(` + numberPart + `)?(,(` + numberPart + `)?)*$`
	patternBool   = `(?i)^(true|false)$`
	patternAny    = `(?s)^.+$`

	templateDate    = "%s: '%s' is not a valid date, expected yyyy, yyyy-MM, yyyy-MM-dd or an ISO-8601 date-time"
	templateNumber  = "%s: '%s' is not a valid number"
	templateBool    = "%s: '%s' is not a valid boolean, expected true or false"
	templateGeneral = "%s: '%s' is not a valid value"
)

// FieldPath is one document path a key searches. Keyword marks paths that
// carry a ".keyword" subfield for exact matching.
type FieldPath struct {
	Path    string
	Keyword bool
}

// KeywordPath declares a path with a keyword subfield.
func KeywordPath(path string) FieldPath {
	return FieldPath{Path: path, Keyword: true}
}

// TextPath declares a path searched as-is.
func TextPath(path string) FieldPath {
	return FieldPath{Path: path}
}

// Key describes one recognised query parameter. Keys are immutable once a
// Registry has assigned their ordinal.
type Key struct {
	name          string
	kind          FieldKind
	operator      FieldOperator
	paths         []FieldPath
	boost         float64
	namePattern   *regexp.Regexp
	valuePattern  *regexp.Regexp
	decoding      ValueDecoding
	errorTemplate string
	subKey        *Key
	relation      string
	ordinal       int
	registry      string
}

// KeyOption customises a Key at declaration time.
type KeyOption func(*Key)

// WithPaths sets the ordered target paths.
func WithPaths(paths ...FieldPath) KeyOption {
	return func(k *Key) {
		k.paths = append(k.paths, paths...)
	}
}

// WithBoost sets the relevance boost.
func WithBoost(boost float64) KeyOption {
	return func(k *Key) {
		k.boost = boost
	}
}

// WithNamePattern replaces the derived request-key pattern. The pattern is
// always matched case-insensitively.
func WithNamePattern(pattern string) KeyOption {
	return func(k *Key) {
		k.namePattern = regexp.MustCompile(`(?i)^(` + pattern + `)$`)
	}
}

// WithValuePattern replaces the kind's default value pattern.
func WithValuePattern(pattern string) KeyOption {
	return func(k *Key) {
		k.valuePattern = regexp.MustCompile(pattern)
	}
}

// WithDecoding sets the decoding applied to raw values.
func WithDecoding(decoding ValueDecoding) KeyOption {
	return func(k *Key) {
		k.decoding = decoding
	}
}

// WithErrorTemplate sets a fmt template receiving key name and value.
func WithErrorTemplate(template string) KeyOption {
	return func(k *Key) {
		k.errorTemplate = template
	}
}

// WithSubKey makes a HAS_PARTS or PART_OF key compile its value with sub and
// join over relation.
func WithSubKey(sub *Key, relation string) KeyOption {
	return func(k *Key) {
		k.subKey = sub
		k.relation = relation
	}
}

// NewKey declares a key. Defaults: boost 1.0, URL decoding, a name pattern
// derived from the camelCase name and a value pattern chosen by kind.
func NewKey(name string, kind FieldKind, operator FieldOperator, opts ...KeyOption) *Key {
	k := &Key{
		name:     name,
		kind:     kind,
		operator: operator,
		boost:    1.0,
		decoding: DecodeURL,
		ordinal:  -1,
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.namePattern == nil {
		k.namePattern = regexp.MustCompile(derivedNamePattern(name))
	}
	if k.valuePattern == nil {
		k.valuePattern = regexp.MustCompile(defaultValuePattern(kind))
	}
	if k.errorTemplate == "" {
		k.errorTemplate = defaultErrorTemplate(kind)
	}
	return k
}

// Name returns the canonical camelCase name.
func (k *Key) Name() string { return k.name }

// Kind returns the field kind.
func (k *Key) Kind() FieldKind { return k.kind }

// Operator returns the field operator.
func (k *Key) Operator() FieldOperator { return k.operator }

// Boost returns the relevance boost.
func (k *Key) Boost() float64 { return k.boost }

// Decoding returns the value decoding.
func (k *Key) Decoding() ValueDecoding { return k.decoding }

// Ordinal returns the position in the owning registry.
func (k *Key) Ordinal() int { return k.ordinal }

// SubKey returns the key a relational key delegates to, and the join relation.
func (k *Key) SubKey() (*Key, string) { return k.subKey, k.relation }

// Paths returns a copy of the declared paths.
func (k *Key) Paths() []FieldPath {
	out := make([]FieldPath, len(k.paths))
	copy(out, k.paths)
	return out
}

// SearchPaths fans the declared paths out: with keyword set, paths that have a
// keyword subfield get the ".keyword" suffix.
func (k *Key) SearchPaths(keyword bool) []string {
	out := make([]string, 0, len(k.paths))
	for _, p := range k.paths {
		if keyword && p.Keyword {
			out = append(out, p.Path+keywordSuffix)
			continue
		}
		out = append(out, p.Path)
	}
	return out
}

// MatchesName reports whether a raw request key names this key.
func (k *Key) MatchesName(raw string) bool {
	return k.namePattern.MatchString(raw)
}

// ValidValue reports whether value satisfies the value pattern.
func (k *Key) ValidValue(value string) bool {
	return k.valuePattern.MatchString(value)
}

// ErrorMessage renders the key's error template for value.
func (k *Key) ErrorMessage(value string) string {
	return fmt.Sprintf(k.errorTemplate, k.name, value)
}

func (k *Key) String() string {
	return k.name
}

// derivedNamePattern turns "contributorName" into a case-insensitive pattern
// accepting contributorName, contributor_name and CONTRIBUTOR-NAME.
func derivedNamePattern(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return `(?i)^` + strings.Join(words, `[_-]?`) + `$`
}

func splitWords(name string) []string {
	var (
		words   []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

func defaultValuePattern(kind FieldKind) string {
	switch kind {
	case Date:
		return patternDate
	case Number:
		return patternNumber
	case Exists:
		return patternBool
	default:
		return patternAny
	}
}

func defaultErrorTemplate(kind FieldKind) string {
	switch kind {
	case Date:
		return templateDate
	case Number:
		return templateNumber
	case Exists:
		return templateBool
	default:
		return templateGeneral
	}
}
