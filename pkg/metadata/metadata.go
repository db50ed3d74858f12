// Package metadata reads optional display attributes from track sources.
package metadata

import (
	"regexp"

	"github.com/aretw0/cartridge/pkg/domain"
)

// Matches both the exported and the cleaned declaration, with an optional
// string annotation, holding a single-, double- or back-quoted literal.
var colourDecl = regexp.MustCompile(`(?:\bexport\s+)?\bconst\s+` + regexp.QuoteMeta(domain.ColourName) +
	`\s*(?::\s*string\s*)?=\s*(?:'([^'\n]*)'|"([^"\n]*)"|` + "`([^`]*)`" + `)`)

// Colour returns the literal assigned to the top-level colour constant.
// It works on raw and cleaned text alike and never fails; ok is false when no
// declaration is present.
func Colour(src string) (value string, ok bool) {
	m := colourDecl.FindStringSubmatchIndex(src)
	if m == nil {
		return "", false
	}
	for g := 1; g <= 3; g++ {
		if m[2*g] >= 0 {
			return src[m[2*g]:m[2*g+1]], true
		}
	}
	return "", false
}
