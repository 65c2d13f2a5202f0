package mkbparser

import (
	"strings"
	"unicode/utf8"
)

// NormalizeCode maps a raw code to its canonical MKB-10 form.
// ok=false on input means the value is absent, and the result is absent too.
//
// The code is trimmed, upper-cased, stripped of spaces and of every ".-", then a
// four character code without a dot gets one after the third character (A000 -> A00.0).
// Anything else is returned as is and left to the format filter.
func NormalizeCode(raw string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}

	code := strings.ToUpper(strings.TrimSpace(raw))
	code = strings.ReplaceAll(code, " ", "")
	code = strings.ReplaceAll(code, ".-", "")

	if utf8.RuneCountInString(code) == 4 && !strings.Contains(code, ".") {
		runes := []rune(code)
		return string(runes[:3]) + "." + string(runes[3:]), true
	}
	return code, true
}

// normalizeCell normalizes a code cell; an empty cell is absent
func normalizeCell(cell string) string {
	code, _ := NormalizeCode(cell, cell != "")
	return code
}
