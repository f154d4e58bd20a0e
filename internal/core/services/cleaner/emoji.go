package cleaner

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// RemoveEmojis deletes every emoji presentation unit. Text is walked one
// grapheme cluster at a time, so modifier, flag and ZWJ sequences go as a
// whole and combining marks on ordinary letters stay attached.
func RemoveEmojis(text string) string {
	if text == "" || isASCII(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if gomoji.ContainsEmoji(cluster) {
			continue
		}
		b.WriteString(cluster)
	}
	return b.String()
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return false
		}
	}
	return true
}
