package layout

// Package layout computes gallery geometry: the justified row packing that
// scales each full row to exactly fill the container width, and the masonry
// column packing used as an alternative view mode. Both are pure functions of
// their inputs and safe to call from the UI thread; they never touch I/O.
