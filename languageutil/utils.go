package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// Label title-cases free text typed by operators and collapses inner whitespace.
func Label(s string) string {
	return TitleCaser.String(strings.Join(strings.Fields(s), " "))
}

// JoinLabels renders a set of vocabulary items as one cell value.
func JoinLabels(items []string) string {
	return strings.Join(items, ", ")
}
