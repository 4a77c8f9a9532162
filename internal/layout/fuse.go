package layout

import "sort"

// Descriptions turns a page's detected elements into human-readable
// sentences for fusion into the page text. One sentence per element,
// sorted lexicographically for determinism. Caption and footnote
// presence is page-scoped (see pageFlags).
func Descriptions(elements []Element) []string {
	if len(elements) == 0 {
		return nil
	}
	var flags pageFlags
	for _, el := range elements {
		switch el.Label {
		case LabelTableCaption:
			flags.tableCaption = true
		case LabelTableFootnote:
			flags.tableFootnote = true
		case LabelFigureCaption:
			flags.figureCaption = true
		}
	}
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		describe, ok := describers[el.Label]
		if !ok {
			describe = describeGeneric
		}
		out = append(out, describe(flags))
	}
	sort.Strings(out)
	return out
}
