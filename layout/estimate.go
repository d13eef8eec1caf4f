package layout

// Estimator approximates rendered height of text blocks without drawing
// anything: every CharsPerLine characters count as one wrapped line.
type Estimator struct {
	CharsPerLine int
	LineHeight   int
	UnitSpacing  int
}

// Lines returns estimated number of lines for text units given their
// character counts.
func (e Estimator) Lines(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	total := 0
	for _, n := range lengths {
		total += n
	}
	cpl := max(e.CharsPerLine, 1)
	// each unit ends with a partial line
	return total/cpl + len(lengths)
}

// TextHeight returns estimated height of text units given their character
// counts.
func (e Estimator) TextHeight(lengths []int) int {
	return e.Lines(lengths)*e.LineHeight + len(lengths)*e.UnitSpacing
}

// EstimateTextHeight is shortcut for Estimator.TextHeight.
func EstimateTextHeight(lengths []int, charsPerLine, lineHeight, spacing int) int {
	return Estimator{CharsPerLine: charsPerLine, LineHeight: lineHeight, UnitSpacing: spacing}.TextHeight(lengths)
}

// MeasuredTextHeight wraps texts with the same wrapper renderer uses and
// returns exact height they would occupy at given line height and spacing.
func MeasuredTextHeight(w *Wrapper, texts []string, maxWidth, lineHeight, spacing int) int {
	h := 0
	for _, t := range texts {
		h += len(w.Wrap(t, maxWidth))*lineHeight + spacing
	}
	return h
}
