package layout

// DefaultColumns is the default masonry column count
const DefaultColumns = 6

// Masonry packs items into fixed-width columns, always placing the next item
// in the currently shortest column. Item heights follow the column width and
// the item's aspect ratio.
type Masonry struct {
	Columns int
	Spacing int
}

// NewMasonry creates a masonry layout with the given column count and
// spacing, clamping degenerate values.
func NewMasonry(columns, spacing int) Masonry {
	if columns <= 0 {
		columns = DefaultColumns
	}
	if spacing < 0 {
		spacing = 0
	}
	return Masonry{Columns: columns, Spacing: spacing}
}

// Compute places items, given as aspect ratios in display order, into the
// container width. A width <= 0 produces no placements.
func (m Masonry) Compute(aspects []float64, width int) Result {
	if width <= 0 || len(aspects) == 0 {
		return Result{}
	}

	colWidth := (width - (m.Columns-1)*m.Spacing) / m.Columns
	if colWidth <= 0 {
		return Result{}
	}

	offsets := make([]int, m.Columns)
	placements := make([]Placement, 0, len(aspects))
	for idx, aspect := range aspects {
		if aspect <= 0 {
			aspect = 1.0
		}
		h := int(float64(colWidth) / aspect)
		if h <= 0 {
			h = 1
		}

		col := 0
		for c := 1; c < m.Columns; c++ {
			if offsets[c] < offsets[col] {
				col = c
			}
		}

		placements = append(placements, Placement{
			Index:  idx,
			X:      col * (colWidth + m.Spacing),
			Y:      offsets[col],
			Width:  colWidth,
			Height: h,
		})
		offsets[col] += h + m.Spacing
	}

	total := 0
	for _, off := range offsets {
		if off > total {
			total = off
		}
	}
	if total > 0 {
		total -= m.Spacing
	}

	// One synthetic row keeps the Result shape shared with Justified.
	return Result{
		Rows:        []Row{{Placements: placements, Y: 0, Height: total}},
		TotalHeight: total,
	}
}
