package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
	dReplacer     = strings.NewReplacer("đ", "d", "Đ", "D")
)

// Slugify chuyen tieu de tieng Viet co dau thanh slug ASCII.
// Chu "đ" khong co dang to hop nen thay truoc khi bo dau.
func Slugify(s string) string {
	s = dReplacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	slug := slugSeparator.ReplaceAllString(strings.ToLower(ascii), "-")
	return strings.Trim(slug, "-")
}
