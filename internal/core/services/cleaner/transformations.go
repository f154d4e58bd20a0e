package cleaner

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compiled once per process and shared by every pipeline.
var (
	multipleNewlines = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`\n{2,}`)
	})

	// Go's \s is ASCII only; this class is the Unicode White_Space property.
	multipleWhitespace = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`[\t\n\v\f\r\x{85}\p{Z}]{2,}`)
	})
)

// Stateless rune filters, safe for concurrent use with transform.String.
var (
	dropPunctuation = runes.Remove(runes.Predicate(func(r rune) bool {
		return !isWordRune(r) && !unicode.IsSpace(r)
	}))
	dropNonWord = runes.Remove(runes.Predicate(func(r rune) bool {
		return !isWordRune(r)
	}))
	dropNonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))
	foldLetters = runes.Map(func(r rune) rune {
		if folded, ok := letterFolds[r]; ok {
			return folded
		}
		return r
	})
)

// letterFolds covers letters that carry a diacritic but have no canonical
// decomposition, so NFD alone cannot reach the base letter.
var letterFolds = map[rune]rune{
	'Æ': 'A', 'æ': 'a',
	'Ø': 'O', 'ø': 'o',
	'Œ': 'O', 'œ': 'o',
	'Đ': 'D', 'đ': 'd',
	'Ð': 'D', 'ð': 'd',
	'Ħ': 'H', 'ħ': 'h',
	'Ł': 'L', 'ł': 'l',
	'Ŀ': 'L', 'ŀ': 'l',
	'Ŧ': 'T', 'ŧ': 't',
	'Ŋ': 'N', 'ŋ': 'n',
	'ı': 'i',
	'ȷ': 'j',
	'Ɨ': 'I', 'ɨ': 'i',
	'Ƶ': 'Z', 'ƶ': 'z',
	'Ƀ': 'B', 'ƀ': 'b',
	'Ɉ': 'J', 'ɉ': 'j',
	'Ɍ': 'R', 'ɍ': 'r',
	'Ɏ': 'Y', 'ɏ': 'y',
}

// latinDiacritics are the combining blocks used by decomposed Latin letters.
// Marks outside them (Devanagari signs, kana voicing marks) are never
// accents.
var latinDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0300, Hi: 0x036f, Stride: 1},
		{Lo: 0x1ab0, Hi: 0x1aff, Stride: 1},
		{Lo: 0x1dc0, Hi: 0x1dff, Stride: 1},
		{Lo: 0x20d0, Hi: 0x20ff, Stride: 1},
		{Lo: 0xfe20, Hi: 0xfe2f, Stride: 1},
	},
}

// isWordRune matches the Unicode word class: letters, letter numbers, marks,
// decimal digits, connector punctuation and the zero-width joiners.
func isWordRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.Is(unicode.Nl, r), unicode.IsMark(r), unicode.Is(unicode.Nd, r):
		return true
	case unicode.Is(unicode.Pc, r):
		return true
	case r == '\u200c' || r == '\u200d':
		return true
	}
	return false
}

func filter(t transform.Transformer, text string) string {
	result, _, err := transform.String(t, text)
	if err != nil {
		// The filters never report errors on valid UTF-8.
		return text
	}
	return result
}

// TrimSpace strips leading and trailing Unicode whitespace.
func TrimSpace(text string) string {
	return strings.TrimSpace(text)
}

// TrimLeading strips leading Unicode whitespace.
func TrimLeading(text string) string {
	return strings.TrimLeftFunc(text, unicode.IsSpace)
}

// TrimTrailing strips trailing Unicode whitespace.
func TrimTrailing(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace)
}

// CollapseNewlines replaces every run of two or more newlines with one.
func CollapseNewlines(text string) string {
	return multipleNewlines().ReplaceAllLiteralString(text, "\n")
}

// CollapseWhitespace replaces every run of two or more whitespace characters,
// newlines and tabs included, with a single ASCII space.
func CollapseWhitespace(text string) string {
	return multipleWhitespace().ReplaceAllLiteralString(text, " ")
}

// RemovePunctuation deletes characters that are neither word characters nor
// whitespace.
func RemovePunctuation(text string) string {
	return filter(dropPunctuation, text)
}

// RemoveNonAlphanumeric keeps word characters only.
func RemoveNonAlphanumeric(text string) string {
	return filter(dropNonWord, text)
}

// RemoveNonASCII deletes every character above U+007F.
func RemoveNonASCII(text string) string {
	return filter(dropNonASCII, text)
}

// NormalizeUnicode applies NFC.
func NormalizeUnicode(text string) string {
	return norm.NFC.String(text)
}

// RemoveAccents folds accented letters to their base letter, e.g.
// "TÅRÖÄÆØ" becomes "TAROAAO".
func RemoveAccents(text string) string {
	text = stripLatinDiacritics(norm.NFD.String(text))
	text = filter(foldLetters, text)
	return norm.NFC.String(text)
}

// stripLatinDiacritics drops combining diacritics that follow a Latin base
// letter in decomposed text. Marks on other scripts are kept.
func stripLatinDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	latinBase := false
	for _, r := range text {
		if unicode.Is(unicode.Mn, r) {
			if latinBase && unicode.Is(latinDiacritics, r) {
				continue
			}
			b.WriteRune(r)
			continue
		}
		latinBase = unicode.Is(unicode.Latin, r)
		b.WriteRune(r)
	}
	return b.String()
}
