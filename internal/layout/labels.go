package layout

// Label classifies a detected layout region. The set mirrors the
// DocStructBench classes produced by the detection model.
type Label string

const (
	LabelTitle          Label = "title"
	LabelPlainText      Label = "plain_text"
	LabelAbandon        Label = "abandon"
	LabelFigure         Label = "figure"
	LabelFigureCaption  Label = "figure_caption"
	LabelTable          Label = "table"
	LabelTableCaption   Label = "table_caption"
	LabelTableFootnote  Label = "table_footnote"
	LabelIsolateFormula Label = "isolate_formula"
	LabelFormulaCaption Label = "formula_caption"
)

// pageFlags records which caption-like labels occur anywhere on a
// page. Presence is page-scoped, not associated with a specific table
// or figure box.
type pageFlags struct {
	tableCaption  bool
	tableFootnote bool
	figureCaption bool
}

// describers maps each label to its description template. Unknown
// labels fall back to describeGeneric.
var describers = map[Label]func(pageFlags) string{
	LabelTitle: func(pageFlags) string {
		return "This page contains a section title."
	},
	LabelPlainText: func(pageFlags) string {
		return "This page contains a block of plain text."
	},
	LabelAbandon: func(pageFlags) string {
		return "This page contains a marginal region such as a header or footer."
	},
	LabelFigure: func(f pageFlags) string {
		s := "This page contains a figure."
		if f.figureCaption {
			s += " The figure has a caption."
		}
		return s
	},
	LabelFigureCaption: func(pageFlags) string {
		return "This page contains a figure caption."
	},
	LabelTable: func(f pageFlags) string {
		s := "This page contains a table."
		if f.tableCaption {
			s += " The table has a caption."
		}
		if f.tableFootnote {
			s += " The table has a footnote."
		}
		return s
	},
	LabelTableCaption: func(pageFlags) string {
		return "This page contains a table caption."
	},
	LabelTableFootnote: func(pageFlags) string {
		return "This page contains a table footnote."
	},
	LabelIsolateFormula: func(pageFlags) string {
		return "This page contains a standalone formula."
	},
	LabelFormulaCaption: func(pageFlags) string {
		return "This page contains a formula caption."
	},
}

func describeGeneric(pageFlags) string {
	return "This page contains a detected layout region."
}
