package model

import "image"

// Item represents one media asset tracked from directory listing through
// fetch, decode, and layout. The aspect ratio is zero until a decode
// completes; layout code must fall back to square for unknown ratios.
type Item struct {
	Name        string
	Path        string
	Size        int64
	DownloadURL string
	AspectRatio float64
	Image       image.Image
}

// AspectOrSquare returns the item's aspect ratio, or 1.0 while the intrinsic
// dimensions are unknown or degenerate.
func (it *Item) AspectOrSquare() float64 {
	if it.AspectRatio <= 0 {
		return 1.0
	}
	return it.AspectRatio
}

// SetDecoded stores a decoded image and derives the intrinsic aspect ratio
// from its bounds.
func (it *Item) SetDecoded(img image.Image) {
	it.Image = img
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dy() > 0 {
		it.AspectRatio = float64(b.Dx()) / float64(b.Dy())
	}
}
