package entities

// ContentBlock is one untimed slide's worth of authored content as
// produced by the outline source. Ordering is authorial and must be
// preserved through alignment.
type ContentBlock struct {
	Title    string   `json:"title"`
	Points   []string `json:"points"`
	Formulas []string `json:"formulas,omitempty"`
	DeepDive *string  `json:"deep_dive,omitempty"`
}

// TextLength returns the total textual length of the block, the basis of
// its reading weight
func (b *ContentBlock) TextLength() int {
	n := len(b.Title)
	for _, p := range b.Points {
		n += len(p)
	}
	if b.DeepDive != nil {
		n += len(*b.DeepDive)
	}
	return n
}

// FormulaLength returns the total length of the block's formulas
func (b *ContentBlock) FormulaLength() int {
	n := 0
	for _, f := range b.Formulas {
		n += len(f)
	}
	return n
}
