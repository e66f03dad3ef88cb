package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lenstrace/imagegen"
)

// ImageView is the anchored image as the simulator draws it.
type ImageView struct {
	img     *ebiten.Image
	prompt  string
	opacity float32
}

func NewImageView() *ImageView {
	return &ImageView{opacity: 1}
}

func (v *ImageView) SetImage(img imagegen.Image) {
	decoded, err := imagegen.Decode(img.PNG)
	if err != nil {
		log.Printf("decode image %s: %v", img.ID, err)
		return
	}
	v.img = ebiten.NewImageFromImage(decoded)
	v.prompt = img.Prompt
}

func (v *ImageView) SetOpacity(opacity float32) {
	v.opacity = opacity
}

// Draw renders the image centred at (x, y) with the given width.
func (v *ImageView) Draw(screen *ebiten.Image, x, y, width float64) {
	if v == nil || v.img == nil {
		return
	}
	b := v.img.Bounds()
	scale := width / float64(b.Dx())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x-width/2, y-float64(b.Dy())*scale/2)
	op.ColorScale.ScaleAlpha(v.opacity)
	screen.DrawImage(v.img, op)
}
