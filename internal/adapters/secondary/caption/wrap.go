package caption

import (
	"strings"

	"golang.org/x/text/width"
)

// displayWidth returns the on-screen column count of s, counting East
// Asian wide and fullwidth runes as two columns. Korean verse text must
// wrap by display width, not rune count, or lines overflow the overlay.
func displayWidth(s string) int {
	total := 0
	for _, r := range s {
		total += runeWidth(r)
	}
	return total
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// wrapText greedily wraps text into lines of at most maxCols display
// columns, breaking on spaces. A single word wider than the budget is
// placed on its own line rather than split mid-word.
func wrapText(text string, maxCols int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	currentCols := 0

	for _, word := range words {
		wordCols := displayWidth(word)

		if currentCols > 0 && currentCols+1+wordCols > maxCols {
			lines = append(lines, current.String())
			current.Reset()
			currentCols = 0
		}

		if currentCols > 0 {
			current.WriteByte(' ')
			currentCols++
		}
		current.WriteString(word)
		currentCols += wordCols
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}
