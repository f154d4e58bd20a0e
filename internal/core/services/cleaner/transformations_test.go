package cleaner

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// TestTransformations_Scenarios runs each end-to-end example through a single
// catalog entry.
func TestTransformations_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		step     Transformation
		input    string
		expected string
	}{
		{
			name:     "empty lines collapse",
			step:     RemoveEmptyLines,
			input:    "Hello\n\n\nBlah\n\nMeh",
			expected: "Hello\nBlah\nMeh",
		},
		{
			name:     "space runs collapse",
			step:     ConvertMultipleSpacesToSingle,
			input:    "a   a a a      a",
			expected: "a a a a a",
		},
		{
			name:     "emojis removed",
			step:     RemoveAllEmojis,
			input:    "😆😆😆😛abc",
			expected: "abc",
		},
		{
			name:     "punctuation removed",
			step:     RemovePunctuationMarks,
			input:    "!hi. wh?at is the weat[h]er lik?e.",
			expected: "hi what is the weather like",
		},
		{
			name:     "accents folded",
			step:     RemoveLetterAccents,
			input:    "TÅRÖÄÆØ",
			expected: "TAROAAO",
		},
		{
			name:     "emails excised",
			step:     RemoveAllEmails,
			input:    "hi there! [my email](someguyo@example.com) blah@example.com",
			expected: "hi there! [my email]() ",
		},
		{
			name:     "urls excised",
			step:     RemoveAllURLs,
			input:    "hi www.google.com https://www.facebook.com",
			expected: "hi  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.step.Apply(tt.input)
			if result != tt.expected {
				t.Errorf("%s(%q) = %q, expected %q", tt.step, tt.input, result, tt.expected)
			}
		})
	}
}

func TestTransformations_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		step     Transformation
		input    string
		expected string
	}{
		{"trim unicode whitespace", Trim, " \t hi \u3000\n", "hi"},
		{"trim leading only", RemoveLeadingSpaces, "  \t x ", "x "},
		{"trim trailing only", RemoveTrailingSpaces, " x \t\n", " x"},
		{"single newline kept", RemoveEmptyLines, "a\nb", "a\nb"},
		{"whitespace run with newline", ConvertMultipleSpacesToSingle, "a \t\n b", "a b"},
		{"single tab kept", ConvertMultipleSpacesToSingle, "a\tb", "a\tb"},
		{"non-breaking space run", ConvertMultipleSpacesToSingle, "a\u00a0\u00a0b", "a b"},
		{"non ascii dropped", RemoveNonASCIICharacters, "héllo wörld", "hllo wrld"},
		{"word chars kept", RemoveNonAlphanumericCharacters, "a_b-c d!9", "a_bcd9"},
		{"non latin letters kept", RemoveNonAlphanumericCharacters, "Привет, мир!", "Приветмир"},
		{"underscore is not punctuation", RemovePunctuationMarks, "snake_case, ok?", "snake_case ok"},
		{"combining sequence composed", NormalizeUnicodeCharacters, "e\u0301", "\u00e9"},
		{"accents in words", RemoveLetterAccents, "Cr\u00e8me Br\u00fbl\u00e9e", "Creme Brulee"},
		{"letters without decomposition", RemoveLetterAccents, "Łódź", "Lodz"},
		{"accents on folded letters", RemoveLetterAccents, "\u01fe \u01e2 \u01fd", "O A a"},
		{"devanagari signs kept", RemoveLetterAccents, "हिंदी", "हिंदी"},
		{"kana voicing kept", RemoveLetterAccents, "がぎ です", "がぎ です"},
		{"cyrillic breve kept", RemoveLetterAccents, "йод", "йод"},
		{"mixed scripts", RemoveLetterAccents, "café हिंदी", "cafe हिंदी"},
		{"letter numbers are words", RemoveNonAlphanumericCharacters, "\u216b \u00bd x\u00b2", "\u216bx"},
		{"letter numbers are not punctuation", RemovePunctuationMarks, "\u216b \u00bd x\u00b2", "\u216b  x"},
		{"email without dot in domain", RemoveAllEmails, "mail root@localhost now", "mail  now"},
		{"email next to multibyte", RemoveAllEmails, "«a@b.c»", "«»"},
		{"trailing dot kept", RemoveAllEmails, "write a.b+tag@mail.example.org.", "write ."},
		{"url with path", RemoveAllURLs, "visit https://example.com/docs now", "visit  now"},
		{"email is not a url", RemoveAllURLs, "mail bob@example.com or www.example.com", "mail bob@example.com or "},
		{"skin tone sequence", RemoveAllEmojis, "\U0001F44D\U0001F3FD ok", " ok"},
		{"flag sequence", RemoveAllEmojis, "vive \U0001F1EB\U0001F1F7!", "vive !"},
		{"zwj sequence", RemoveAllEmojis, "\U0001F468\u200D\U0001F469\u200D\U0001F467 family", " family"},
		{"accented letters survive emoji removal", RemoveAllEmojis, "café ☕", "café "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.step.Apply(tt.input))
		})
	}
}

var propertySamples = []string{
	"",
	" ",
	"\n\n\n",
	"   leading and trailing   ",
	"Hello\n\n\nBlah\n\nMeh",
	"a   a a a      a",
	"😆😆😆😛abc",
	"!hi. wh?at is the weat[h]er lik?e.",
	"TÅRÖÄÆØ",
	"hi there! [my email](someguyo@example.com) blah@example.com",
	"hi www.google.com https://www.facebook.com",
	"Ünïcödé  text\n\n\nwith https://x.io and a@b.co 😀",
	"日本語のテキスト　　です",
	"\u01fe\u01e2\u01fd",
	"हिंदी が",
	"\u216b \u00bd x\u00b2",
}

func TestTransformations_Idempotent(t *testing.T) {
	for _, step := range Catalog() {
		t.Run(step.String(), func(t *testing.T) {
			for _, s := range propertySamples {
				once := step.Apply(s)
				assert.Equal(t, once, step.Apply(once), "input %q", s)
			}
		})
	}
}

func TestTransformations_EmptyInput(t *testing.T) {
	for _, step := range Catalog() {
		assert.Equal(t, "", step.Apply(""), step.String())
	}
}

func TestTrim_NoSurroundingWhitespace(t *testing.T) {
	for _, s := range propertySamples {
		out := Trim.Apply(s)
		if out == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(out)
		last, _ := utf8.DecodeLastRuneInString(out)
		assert.False(t, unicode.IsSpace(first), "input %q", s)
		assert.False(t, unicode.IsSpace(last), "input %q", s)
	}
}

func TestRemoveEmptyLines_NoNewlineRuns(t *testing.T) {
	for _, s := range propertySamples {
		out := RemoveEmptyLines.Apply(s)
		assert.NotContains(t, out, "\n\n", "input %q", s)
		assert.Equal(t, strings.Count(s, "\n") > 0, strings.Count(out, "\n") > 0)
	}
}

func TestRemoveLetterAccents_KeepsASCIIPositions(t *testing.T) {
	inputs := []string{"Crème Brûlée", "TÅRÖÄÆØ", "naïve façade", "Ångström 42"}
	for _, s := range inputs {
		in := []rune(s)
		out := []rune(RemoveLetterAccents.Apply(s))
		if !assert.Len(t, out, len(in), "input %q", s) {
			continue
		}
		for i, r := range in {
			if r <= unicode.MaxASCII {
				assert.Equal(t, r, out[i], "input %q position %d", s, i)
			}
		}
	}
}

func TestCatalog_Metadata(t *testing.T) {
	assert.Len(t, Catalog(), 13)
	assert.Equal(t, "Remove All Urls", RemoveAllURLs.Label())
	assert.Equal(t, "Trim", Trim.Label())
	assert.Equal(t, 1, NormalizeUnicodeCharacters.Priority())
	assert.Equal(t, 13, Trim.Priority())

	seen := map[string]bool{}
	for _, step := range Catalog() {
		assert.True(t, step.Valid())
		assert.NotEmpty(t, step.Description())
		assert.False(t, seen[step.String()], "duplicate %s", step)
		seen[step.String()] = true

		parsed, ok := ParseTransformation(step.String())
		assert.True(t, ok)
		assert.Equal(t, step, parsed)
	}

	invalid := Transformation(200)
	assert.False(t, invalid.Valid())
	assert.Equal(t, "invalid", invalid.String())
	assert.Equal(t, "unchanged", invalid.Apply("unchanged"))
}

func BenchmarkAllTransformations(b *testing.B) {
	p, err := BuildFromSelection(AllSelection())
	if err != nil {
		b.Fatal(err)
	}
	proc := NewProcessor(p)
	text := strings.Repeat(propertySamples[11]+" ", 32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Process(text)
	}
}
