// Package cleaner implements the text cleaning core: the catalog of named
// transformations, selections of active transformations, the pipeline builder
// and the processor that runs a built pipeline against text.
package cleaner

import (
	"strings"
	"unicode"
)

// Transformation identifies one entry of the catalog. The numeric value is the
// canonical priority used when a pipeline is built from an unordered Selection.
type Transformation uint8

// Catalog entries, declared in canonical order.
const (
	NormalizeUnicodeCharacters Transformation = iota
	RemoveAllEmails
	RemoveAllURLs
	RemoveAllEmojis
	RemoveLetterAccents
	RemoveNonASCIICharacters
	RemovePunctuationMarks
	RemoveNonAlphanumericCharacters
	RemoveEmptyLines
	ConvertMultipleSpacesToSingle
	RemoveLeadingSpaces
	RemoveTrailingSpaces
	Trim

	catalogSize int = iota
)

var transformationNames = [catalogSize]string{
	NormalizeUnicodeCharacters:      "normalize_unicode_characters",
	RemoveAllEmails:                 "remove_all_emails",
	RemoveAllURLs:                   "remove_all_urls",
	RemoveAllEmojis:                 "remove_all_emojis",
	RemoveLetterAccents:             "remove_letter_accents",
	RemoveNonASCIICharacters:        "remove_non_ascii_characters",
	RemovePunctuationMarks:          "remove_punctuation_marks",
	RemoveNonAlphanumericCharacters: "remove_non_alphanumeric_characters",
	RemoveEmptyLines:                "remove_empty_lines",
	ConvertMultipleSpacesToSingle:   "convert_multiple_spaces_to_single",
	RemoveLeadingSpaces:             "remove_leading_spaces",
	RemoveTrailingSpaces:            "remove_trailing_spaces",
	Trim:                            "trim",
}

var transformationDescriptions = [catalogSize]string{
	NormalizeUnicodeCharacters:      "Apply Unicode Normalization Form C (canonical composition)",
	RemoveAllEmails:                 "Delete every email address",
	RemoveAllURLs:                   "Delete every URL, with or without a scheme",
	RemoveAllEmojis:                 "Delete every emoji, including modifier, flag and joiner sequences",
	RemoveLetterAccents:             "Replace accented letters with their base letter",
	RemoveNonASCIICharacters:        "Delete every character above U+007F",
	RemovePunctuationMarks:          "Delete every character that is neither a word character nor whitespace",
	RemoveNonAlphanumericCharacters: "Delete every character that is not a word character",
	RemoveEmptyLines:                "Collapse runs of two or more newlines into one",
	ConvertMultipleSpacesToSingle:   "Collapse runs of two or more whitespace characters into one space",
	RemoveLeadingSpaces:             "Strip leading whitespace",
	RemoveTrailingSpaces:            "Strip trailing whitespace",
	Trim:                            "Strip leading and trailing whitespace",
}

var transformationsByName = func() map[string]Transformation {
	m := make(map[string]Transformation, catalogSize)
	for i, name := range transformationNames {
		m[name] = Transformation(i)
	}
	return m
}()

// Catalog returns every transformation in canonical order.
func Catalog() []Transformation {
	all := make([]Transformation, catalogSize)
	for i := range all {
		all[i] = Transformation(i)
	}
	return all
}

// Names returns every catalog identifier in canonical order.
func Names() []string {
	names := make([]string, catalogSize)
	copy(names, transformationNames[:])
	return names
}

// ParseTransformation resolves a stable identifier to its catalog entry.
func ParseTransformation(name string) (Transformation, bool) {
	t, ok := transformationsByName[name]
	return t, ok
}

// Valid reports whether t is a catalog entry.
func (t Transformation) Valid() bool {
	return int(t) < catalogSize
}

// String returns the stable identifier.
func (t Transformation) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return transformationNames[t]
}

// Priority returns the canonical position of t, starting at 1.
func (t Transformation) Priority() int {
	return int(t) + 1
}

// Description returns a one-line summary of what t does.
func (t Transformation) Description() string {
	if !t.Valid() {
		return ""
	}
	return transformationDescriptions[t]
}

// Label renders the identifier for display, e.g. "remove_all_urls" becomes
// "Remove All Urls".
func (t Transformation) Label() string {
	words := strings.Fields(strings.ReplaceAll(t.String(), "_", " "))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Apply runs the transformation against text. Values outside the catalog
// leave the text unchanged.
func (t Transformation) Apply(text string) string {
	switch t {
	case NormalizeUnicodeCharacters:
		return NormalizeUnicode(text)
	case RemoveAllEmails:
		return RemoveEmails(text)
	case RemoveAllURLs:
		return RemoveURLs(text)
	case RemoveAllEmojis:
		return RemoveEmojis(text)
	case RemoveLetterAccents:
		return RemoveAccents(text)
	case RemoveNonASCIICharacters:
		return RemoveNonASCII(text)
	case RemovePunctuationMarks:
		return RemovePunctuation(text)
	case RemoveNonAlphanumericCharacters:
		return RemoveNonAlphanumeric(text)
	case RemoveEmptyLines:
		return CollapseNewlines(text)
	case ConvertMultipleSpacesToSingle:
		return CollapseWhitespace(text)
	case RemoveLeadingSpaces:
		return TrimLeading(text)
	case RemoveTrailingSpaces:
		return TrimTrailing(text)
	case Trim:
		return TrimSpace(text)
	default:
		return text
	}
}
