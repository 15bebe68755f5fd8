package validator

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	reservedDevice = map[string]bool{
		"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
	}
)

// SanitizeFilename reduces name to an ASCII basename that is safe on any
// filesystem. It may return an empty string.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if reservedDevice[strings.ToUpper(strings.Split(name, ".")[0])] {
		name = "_" + name
	}
	return name
}
