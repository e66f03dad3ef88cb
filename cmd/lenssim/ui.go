package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/lenstrace/scene"
	"golang.org/x/image/font/basicfont"
)

// controlButton is an on-screen button mirroring a scene node. It is only
// shown while that node is active.
type controlButton struct {
	node activeNode
	btn  *widget.Button
}

type activeNode interface {
	ActiveInHierarchy() bool
}

func findActive(root scene.Node, name string) activeNode {
	n, ok := scene.Find(root, name).(activeNode)
	if !ok {
		return nil
	}
	return n
}

// ControlBar is the clickable row of lens buttons along the bottom edge.
type ControlBar struct {
	buttons []controlButton
}

// Sync shows exactly the buttons whose scene nodes are active.
func (c *ControlBar) Sync() {
	if c == nil {
		return
	}
	for _, b := range c.buttons {
		vis := widget.Visibility_Hide
		if b.node != nil && b.node.ActiveInHierarchy() {
			vis = widget.Visibility_Show
		}
		b.btn.GetWidget().Visibility = vis
	}
}

// NewControlUI builds the button bar. Each entry names the scene node that
// gates the button and the action a click runs.
func NewControlUI(s *Sim) (*ebitenui.UI, *ControlBar) {
	barImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 160})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	pressedImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x88, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	textColor := &widget.ButtonTextColor{
		Idle:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Disabled: color.Gray{Y: 128},
	}

	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(barImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)

	entries := []struct {
		label string
		node  string
		click func()
	}{
		{"Start", "start_button", s.m.GoToImageGen},
		{"Home", "home_button", s.m.GoHome},
		{"Record", "record_button", s.toggleRecording},
		{"Use image", "confirm_image_button", func() { s.report(s.m.ConfirmImage()) }},
		{"Retry", "retry_button", func() { s.report(s.m.Retry()) }},
		{"Place", s.cfg.PlaceButton, s.placePressed},
		{"Confirm", s.cfg.ConfirmButton, func() { s.report(s.m.PressConfirm()) }},
		{"Reset", s.cfg.ResetButton, func() { s.report(s.m.PressReset()) }},
		{"<", "tutorial_prev_button", s.m.PrevTutorialStep},
		{">", "tutorial_next_button", s.m.NextTutorialStep},
		{"Lock", "lock_button", func() { s.m.ToggleLock() }},
	}

	cb := &ControlBar{}
	for _, e := range entries {
		click := e.click
		btn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnImg, Pressed: pressedImg}),
			widget.ButtonOpts.Text(e.label, &face, textColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				click()
			}),
		)
		bar.AddChild(btn)
		cb.buttons = append(cb.buttons, controlButton{node: findActive(s.root, e.node), btn: btn})
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(bar)
	cb.Sync()

	return &ebitenui.UI{Container: root}, cb
}
