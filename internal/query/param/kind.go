// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package param

// FieldKind selects the clause builder that compiles a key.
type FieldKind int

const (
	Invalid FieldKind = iota
	Keyword
	FuzzyKeyword
	Text
	AcrossFields
	Number
	Date
	Exists
	FreeText
	HasParts
	PartOf
	Custom
	SortKeyKind
	Ignored
)

var fieldKindNames = [...]string{
	Invalid:      "INVALID",
	Keyword:      "KEYWORD",
	FuzzyKeyword: "FUZZY_KEYWORD",
	Text:         "TEXT",
	AcrossFields: "ACROSS_FIELDS",
	Number:       "NUMBER",
	Date:         "DATE",
	Exists:       "EXISTS",
	FreeText:     "FREE_TEXT",
	HasParts:     "HAS_PARTS",
	PartOf:       "PART_OF",
	Custom:       "CUSTOM",
	SortKeyKind:  "SORT_KEY",
	Ignored:      "IGNORED",
}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(fieldKindNames) {
		return "UNKNOWN"
	}
	return fieldKindNames[k]
}

// Searchable reports whether keys of this kind must target at least one path
// and carry a real operator.
func (k FieldKind) Searchable() bool {
	switch k {
	case Invalid, Ignored, SortKeyKind:
		return false
	default:
		return true
	}
}

// FieldOperator decides how the values of one key combine.
type FieldOperator int

const (
	NotApplicable FieldOperator = iota
	AllOf
	AnyOf
	NotAllOf
	NotAnyOf
	Between
	GreaterOrEqual
	LessThan
)

var fieldOperatorNames = [...]string{
	NotApplicable:  "NOT_APPLICABLE",
	AllOf:          "ALL_OF",
	AnyOf:          "ANY_OF",
	NotAllOf:       "NOT_ALL_OF",
	NotAnyOf:       "NOT_ANY_OF",
	Between:        "BETWEEN",
	GreaterOrEqual: "GREATER_OR_EQUAL",
	LessThan:       "LESS_THAN",
}

func (o FieldOperator) String() string {
	if o < 0 || int(o) >= len(fieldOperatorNames) {
		return "UNKNOWN"
	}
	return fieldOperatorNames[o]
}

// IsAny reports whether values are OR-combined.
func (o FieldOperator) IsAny() bool {
	return o == AnyOf || o == NotAnyOf
}

// IsNegated reports whether the combined clause is wrapped in must_not.
func (o FieldOperator) IsNegated() bool {
	return o == NotAllOf || o == NotAnyOf
}

// IsRange reports whether the operator needs a range-capable kind.
func (o FieldOperator) IsRange() bool {
	return o == Between || o == GreaterOrEqual || o == LessThan
}

// ValueDecoding is applied to raw values before they reach the store.
type ValueDecoding int

const (
	DecodeNone ValueDecoding = iota
	DecodeURL
)
