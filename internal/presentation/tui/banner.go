package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"                 _        _     _",
	"   ___ __ _ _ __| |_ _ __(_) __| | __ _  ___",
	"  / __/ _` | '__| __| '__| |/ _` |/ _` |/ _ \\",
	" | (_| (_| | |  | |_| |  | | (_| | (_| |  __/",
	"  \\___\\__,_|_|   \\__|_|  |_|\\__,_|\\__, |\\___|",
	"                                  |___/",
}

var bannerColours = []string{"#22d3ee", "#2dd4bf", "#34d399", "#a3e635", "#facc15", "#fb923c"}

// PrintBanner outputs the ASCII art banner with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	fmt.Println()
	for i, line := range bannerLines {
		fmt.Println(termenv.String(line).Foreground(p.Color(bannerColours[i])))
	}
	fmt.Println(termenv.String("  " + version).Faint())
	fmt.Println()
}

// Swatch returns a coloured block for a track colour. Values that are not
// hex codes are returned as plain text.
func Swatch(colour string) string {
	if !isHex(colour) {
		return colour
	}
	p := termenv.ColorProfile()
	return termenv.String("██ ").Foreground(p.Color(colour)).String() + colour
}

func isHex(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
