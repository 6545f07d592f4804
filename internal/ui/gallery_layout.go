package ui

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/lifetime-memories/repogallery/internal/gallery"
)

// Fallback width before the container has been laid out once
const galleryProbeWidth = 800

// GalleryLayout is a fyne.Layout that places photo cards with the gallery
// view's layout engine. Geometry follows the decoded aspect ratios, so cards
// reflow whenever the container resizes or an image finishes loading.
type GalleryLayout struct {
	view *gallery.View

	mu        sync.Mutex
	lastWidth int
}

// NewGalleryLayout creates a layout driven by the given view.
func NewGalleryLayout(view *gallery.View) *GalleryLayout {
	return &GalleryLayout{view: view, lastWidth: galleryProbeWidth}
}

// Layout positions the objects. Object order must match the view's item
// submission order.
func (g *GalleryLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	width := int(size.Width)
	if width <= 0 {
		return
	}
	g.mu.Lock()
	g.lastWidth = width
	g.mu.Unlock()

	result := g.view.Relayout(width)
	for _, row := range result.Rows {
		for _, p := range row.Placements {
			if p.Index >= len(objects) {
				continue
			}
			objects[p.Index].Move(fyne.NewPos(float32(p.X), float32(p.Y)))
			objects[p.Index].Resize(fyne.NewSize(float32(p.Width), float32(p.Height)))
		}
	}
}

// MinSize reports the height the current items need at the last known width.
// The width itself is dictated by the enclosing scroll container.
func (g *GalleryLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	g.mu.Lock()
	width := g.lastWidth
	g.mu.Unlock()

	result := g.view.Relayout(width)
	return fyne.NewSize(0, float32(result.TotalHeight))
}
