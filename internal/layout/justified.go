package layout

import "math"

// Default gallery geometry
const (
	DefaultRowHeight = 120
	DefaultSpacing   = 6
)

// Placement positions one item inside the computed gallery geometry. Index
// refers back to the caller's item order.
type Placement struct {
	Index  int
	X      int
	Y      int
	Width  int
	Height int
}

// Row is one horizontal strip of placements at a common height.
type Row struct {
	Placements []Placement
	Y          int
	Height     int
	Scaled     bool
}

// Result is the full computed geometry plus the content height the caller
// needs to size its scroll viewport.
type Result struct {
	Rows        []Row
	TotalHeight int
}

// Justified packs items into fixed-height rows scaled to fill the container
// width. It holds only configuration; Compute retains no state between calls,
// so every resize or content change is a full recomputation.
type Justified struct {
	RowHeight int
	Spacing   int
}

// NewJustified creates a layout with the given target row height and
// inter-item spacing. Non positive height falls back to the default; negative
// spacing is treated as zero.
func NewJustified(rowHeight, spacing int) Justified {
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	if spacing < 0 {
		spacing = 0
	}
	return Justified{RowHeight: rowHeight, Spacing: spacing}
}

// Compute lays out items, given as intrinsic aspect ratios in display order,
// into rows for the given container width. Ratios <= 0 are treated as square.
// A width <= 0 produces no rows.
//
// Full rows are scaled as a group so their widths plus spacing fill the
// container exactly; each width is rounded independently, so a row can drift
// from the target by up to n-1 pixels. The final partial row keeps natural
// widths. A row closed with a single oversized item is never scaled.
func (j Justified) Compute(aspects []float64, width int) Result {
	if width <= 0 || len(aspects) == 0 {
		return Result{}
	}

	var (
		rows     []Row
		current  []Placement
		accWidth int
		y        int
	)

	closeRow := func(scaled bool) {
		row := Row{Placements: current, Y: y, Height: j.RowHeight, Scaled: scaled}
		if scaled {
			natural := 0
			for _, p := range current {
				natural += p.Width
			}
			scale := float64(width-j.Spacing*(len(current)-1)) / float64(natural)
			x := 0
			for i := range row.Placements {
				w := int(math.Round(float64(row.Placements[i].Width) * scale))
				row.Placements[i].X = x
				row.Placements[i].Width = w
				x += w + j.Spacing
			}
		} else {
			x := 0
			for i := range row.Placements {
				row.Placements[i].X = x
				x += row.Placements[i].Width + j.Spacing
			}
		}
		rows = append(rows, row)
		y += j.RowHeight + j.Spacing
		current = nil
		accWidth = 0
	}

	for idx, aspect := range aspects {
		if aspect <= 0 {
			aspect = 1.0
		}
		natural := int(math.Round(float64(j.RowHeight) * aspect))
		current = append(current, Placement{Index: idx, Y: y, Width: natural, Height: j.RowHeight})
		accWidth += natural + j.Spacing

		if accWidth-j.Spacing > width && len(current) > 1 {
			closeRow(true)
		}
	}
	if len(current) > 0 {
		closeRow(false)
	}

	total := 0
	if len(rows) > 0 {
		total = rows[len(rows)-1].Y + j.RowHeight
	}
	return Result{Rows: rows, TotalHeight: total}
}
