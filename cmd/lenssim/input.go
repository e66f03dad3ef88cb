package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the simulator controls polled once per frame.
type Input struct {
	// Yaw and Pitch are camera turn directions in [-1, 1].
	Yaw   float32
	Pitch float32
	// MoveX/MoveZ walk the camera in its yaw frame.
	MoveX float32
	MoveZ float32

	HomePressed     bool
	ImageGenPressed bool
	RecordPressed   bool
	// ActionPressed is Place or Confirm depending on what is shown.
	ActionPressed   bool
	ResetPressed    bool
	NextPressed     bool
	PrevPressed     bool
	LockPressed     bool
	TracingPressed  bool
	OpacityDelta    float32
	ProjectPressed  bool
	ToggleUIPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and the first gamepad.
func (i *Input) Update() {
	const stickDeadzone = 0.2

	var yaw, pitch, moveX, moveZ float32
	// Positive yaw turns left and positive pitch looks up.
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		yaw += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		yaw -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		pitch += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		pitch -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		moveZ += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		moveZ -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		moveX += 1
	}

	action := inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	reset := inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	record := inpututil.IsKeyJustPressed(ebiten.KeyR)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX = float32(lx)
			moveZ = float32(-ly)
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			yaw = float32(-rx)
			pitch = float32(-ry)
		}

		action = action || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		reset = reset || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		record = record || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	i.Yaw, i.Pitch = yaw, pitch
	i.MoveX, i.MoveZ = moveX, moveZ
	i.ActionPressed = action
	i.ResetPressed = reset
	i.RecordPressed = record

	i.HomePressed = inpututil.IsKeyJustPressed(ebiten.Key1)
	i.ImageGenPressed = inpututil.IsKeyJustPressed(ebiten.Key2)
	i.ProjectPressed = inpututil.IsKeyJustPressed(ebiten.Key3)
	i.TracingPressed = inpututil.IsKeyJustPressed(ebiten.KeyT)
	i.NextPressed = inpututil.IsKeyJustPressed(ebiten.KeyN)
	i.PrevPressed = inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.LockPressed = inpututil.IsKeyJustPressed(ebiten.KeyL)
	i.ToggleUIPressed = inpututil.IsKeyJustPressed(ebiten.KeyTab)

	i.OpacityDelta = 0
	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd) {
		i.OpacityDelta += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract) {
		i.OpacityDelta -= 1
	}
}
