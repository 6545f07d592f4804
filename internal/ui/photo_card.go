package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// PhotoCard renders one gallery image. Before its thumbnail arrives it shows
// a placeholder icon; a failed fetch switches to the broken-image state.
type PhotoCard struct {
	widget.BaseWidget

	name    string
	content *fyne.Container
	image   *canvas.Image
}

// NewPhotoCard creates a card in the loading state.
func NewPhotoCard(name string) *PhotoCard {
	card := &PhotoCard{
		name:  name,
		image: canvas.NewImageFromResource(theme.FileImageIcon()),
	}
	card.image.FillMode = canvas.ImageFillContain
	card.content = container.NewStack(card.image)
	card.ExtendBaseWidget(card)
	return card
}

// SetImage swaps in the fetched thumbnail.
func (pc *PhotoCard) SetImage(img image.Image) {
	pc.image.Resource = nil
	pc.image.Image = img
	pc.image.FillMode = canvas.ImageFillContain
	pc.image.Refresh()
}

// SetFailed marks the card as failed to load.
func (pc *PhotoCard) SetFailed() {
	pc.image.Image = nil
	pc.image.Resource = theme.BrokenImageIcon()
	pc.image.Refresh()
}

// Name returns the file name this card shows.
func (pc *PhotoCard) Name() string {
	return pc.name
}

// CreateRenderer implements fyne.Widget.
func (pc *PhotoCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.content)
}
