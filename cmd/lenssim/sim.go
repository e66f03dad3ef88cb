package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/common"
	"github.com/milk9111/lenstrace/config"
	"github.com/milk9111/lenstrace/game"
	"github.com/milk9111/lenstrace/imagegen"
	"github.com/milk9111/lenstrace/prefabs"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/state"
	"github.com/milk9111/lenstrace/surface"
	"github.com/milk9111/lenstrace/voice"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 1280
	screenHeight = 720

	roomHalfWidth = 3
	roomHalfDepth = 4
	roomHeight    = 2.6

	mapScale   = 60
	mapOriginX = 360
	mapOriginY = 340

	turnSpeed     = 90  // degrees per second
	walkSpeed     = 1.5 // metres per second
	maxPitch      = 80
	opacityPerSec = 0.5
)

var logger = loggo.GetLogger("lenstrace.sim")

// Sim drives a game.Manager from the keyboard inside a box room seen from
// above.
type Sim struct {
	m      *game.Manager
	root   scene.Node
	cfg    config.SceneNames
	room   *surface.Room
	speech *voice.Scripted
	view   *ImageView

	watcher *prefabs.Watcher
	input   *Input
	ui      *ebitenui.UI
	bar     *ControlBar

	camera scene.Node
	anchor scene.Node

	yaw, pitch float32
	clipboard  bool
	showUI     bool
	debug      bool
	status     string
}

func NewSim(m *game.Manager, root scene.Node, cfg config.SceneNames, room *surface.Room, speech *voice.Scripted, view *ImageView, watcher *prefabs.Watcher, debug bool) *Sim {
	s := &Sim{
		m:       m,
		root:    root,
		cfg:     cfg,
		room:    room,
		speech:  speech,
		view:    view,
		watcher: watcher,
		input:   NewInput(),
		camera:  scene.Find(root, cfg.Camera),
		anchor:  scene.Find(root, cfg.Anchor),
		showUI:  true,
		debug:   debug,
	}

	if err := clipboard.Init(); err != nil {
		logger.Warningf("clipboard unavailable, recordings use the last prompt: %v", err)
	} else {
		s.clipboard = true
	}

	m.OnError = func(err error) { s.status = err.Error() }
	m.OnImage = func(img imagegen.Image) { s.status = fmt.Sprintf("generated %q", img.Prompt) }
	m.OnStateChange = func(evt state.ChangeEvent) {
		logger.Debugf("state %s -> %s", evt.Previous, evt.Current)
	}
	m.OnLockChange = func(locked bool) {
		if locked {
			s.status = "image locked"
		} else {
			s.status = "image unlocked"
		}
	}

	s.ui, s.bar = NewControlUI(s)
	s.applyCamera()
	return s
}

func (s *Sim) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	s.input.Update()
	s.reloadChanged()
	s.moveCamera(float32(dt))
	s.handleKeys(float32(dt))

	s.m.Update(dt)

	s.ui.Update()
	s.bar.Sync()
	return nil
}

func (s *Sim) reloadChanged() {
	if s.watcher == nil {
		return
	}
	for _, name := range s.watcher.Poll() {
		switch {
		case prefabs.IsPrefab(name, prefabs.VisibilityFile):
			s.report(s.m.ReloadVisibility())
		case prefabs.IsScript(name):
			s.report(s.m.ReloadVoiceCommands())
		}
	}
	select {
	case err, ok := <-s.watcher.Errors:
		if ok {
			logger.Warningf("watching prefabs: %v", err)
		}
	default:
	}
}

func (s *Sim) moveCamera(dt float32) {
	in := s.input
	if in.Yaw == 0 && in.Pitch == 0 && in.MoveX == 0 && in.MoveZ == 0 {
		return
	}
	s.yaw += in.Yaw * turnSpeed * dt
	s.pitch += in.Pitch * turnSpeed * dt
	if s.pitch > maxPitch {
		s.pitch = maxPitch
	} else if s.pitch < -maxPitch {
		s.pitch = -maxPitch
	}

	if s.camera != nil && (in.MoveX != 0 || in.MoveZ != 0) {
		rot := s.rotation()
		fwd := common.YawForward(rot)
		right := fwd.Cross(common.Up)
		pos := s.camera.WorldPosition().
			Add(fwd.Mul(in.MoveZ * walkSpeed * dt)).
			Add(right.Mul(in.MoveX * walkSpeed * dt))
		pos[0] = mgl32.Clamp(pos[0], -roomHalfWidth+0.1, roomHalfWidth-0.1)
		pos[2] = mgl32.Clamp(pos[2], -roomHalfDepth+0.1, roomHalfDepth-0.1)
		s.camera.SetWorldPosition(pos)
	}
	s.applyCamera()
}

func (s *Sim) rotation() mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(s.yaw), common.Up)
	pitch := mgl32.QuatRotate(mgl32.DegToRad(s.pitch), common.Right)
	return yaw.Mul(pitch)
}

func (s *Sim) applyCamera() {
	if s.camera == nil {
		return
	}
	s.camera.SetWorldRotation(s.rotation())
}

func (s *Sim) handleKeys(dt float32) {
	in := s.input
	switch {
	case in.HomePressed:
		s.m.GoHome()
	case in.ImageGenPressed:
		s.m.GoToImageGen()
	case in.ProjectPressed:
		s.report(s.m.GoToProjection())
	case in.TracingPressed:
		s.m.GoToTracing()
	case in.RecordPressed:
		s.toggleRecording()
	case in.ActionPressed:
		s.primaryAction()
	case in.ResetPressed:
		s.report(s.m.PressReset())
	case in.NextPressed:
		s.m.NextTutorialStep()
	case in.PrevPressed:
		s.m.PrevTutorialStep()
	case in.LockPressed:
		s.m.ToggleLock()
	}
	if in.ToggleUIPressed {
		s.showUI = !s.showUI
	}
	if in.OpacityDelta != 0 {
		s.m.SetImageOpacity(s.m.Opacity() + in.OpacityDelta*opacityPerSec*dt)
	}
}

// primaryAction is whatever Enter means in the current step.
func (s *Sim) primaryAction() {
	switch s.m.State() {
	case state.Intro:
		s.m.GoToImageGen()
		return
	case state.HowToEdit:
		s.m.NextTutorialStep()
		return
	}
	switch s.m.SubState() {
	case state.ReadyToRecord, state.Recording:
		s.toggleRecording()
	case state.Preview:
		s.report(s.m.ConfirmImage())
	case state.SurfaceDetect:
		s.placePressed()
	case state.Placed:
		s.report(s.m.PressConfirm())
	}
}

func (s *Sim) placePressed() {
	res, err := s.m.PressPlace()
	if err != nil {
		s.report(err)
		return
	}
	s.status = "place: " + res.String()
}

// toggleRecording starts a recording whose transcript is the clipboard text,
// or stops the current one.
func (s *Sim) toggleRecording() {
	if s.m.Recording() {
		s.m.StopRecording()
		return
	}
	if s.clipboard {
		if text := strings.TrimSpace(string(clipboard.Read(clipboard.FmtText))); text != "" {
			s.speech.SetText(text)
		}
	}
	s.report(s.m.StartRecording())
}

func (s *Sim) report(err error) {
	if err == nil {
		return
	}
	logger.Warningf("%v", err)
	s.status = err.Error()
}

func (s *Sim) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff})
	s.drawMap(screen)
	s.drawImage(screen)
	s.drawHUD(screen)
	if s.showUI {
		s.ui.Draw(screen)
	}
}

func toScreen(p mgl32.Vec3) (float32, float32) {
	return mapOriginX + p[0]*mapScale, mapOriginY - p[2]*mapScale
}

func (s *Sim) drawMap(screen *ebiten.Image) {
	x0, y0 := toScreen(mgl32.Vec3{-roomHalfWidth, 0, roomHalfDepth})
	vector.StrokeRect(screen, x0, y0, 2*roomHalfWidth*mapScale, 2*roomHalfDepth*mapScale, 2, colornames.Lightgrey, false)

	if s.camera == nil {
		return
	}
	pos := s.camera.WorldPosition()
	end := pos.Add(common.ViewDirection(s.camera.WorldRotation()).Mul(20))
	if hit := s.room.Cast(pos, end); hit != nil {
		end = hit.Position
	}
	cx, cy := toScreen(pos)
	ex, ey := toScreen(end)
	vector.StrokeLine(screen, cx, cy, ex, ey, 1, colornames.Yellow, true)
	vector.FillRect(screen, cx-5, cy-5, 10, 10, colornames.White, false)

	if s.anchor != nil && s.anchor.Enabled() {
		ax, ay := toScreen(s.anchor.WorldPosition())
		clr := color.Color(colornames.Royalblue)
		if s.m.Placement().Locked() {
			clr = colornames.Red
		}
		vector.FillRect(screen, ax-7, ay-7, 14, 14, clr, false)
		fwd := common.ViewDirection(s.anchor.WorldRotation())
		fx, fy := toScreen(s.anchor.WorldPosition().Add(fwd.Mul(0.5)))
		vector.StrokeLine(screen, ax, ay, fx, fy, 2, clr, true)
	}
}

func (s *Sim) drawImage(screen *ebiten.Image) {
	if !s.m.HasGeneratedImage() {
		return
	}
	st, sub := s.m.State(), s.m.SubState()
	if st == state.Intro || (st == state.ImageGen && !(sub == state.Preview || sub.Projecting())) {
		return
	}
	s.view.Draw(screen, 1000, 220, 256)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%q  opacity %.2f", s.view.prompt, s.m.Opacity()), 872, 356)
}

func (s *Sim) drawHUD(screen *ebiten.Image) {
	pl := s.m.Placement()
	lines := []string{
		fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS()),
		fmt.Sprintf("State: %s / %s", s.m.State(), s.m.SubState()),
		fmt.Sprintf("Placed: %v  Clicked: %v  Positioned: %v  Auto: %v  Cooldown: %.2f",
			pl.IsPlaced, pl.IsClicked, pl.HasPositionedImage, pl.AllowAutoPositioning, pl.ResetCooldown),
		fmt.Sprintf("Recording: %v  Generating: %v  Locked: %v  History: %d",
			s.m.Recording(), s.m.Generating(), s.m.Locked(), s.m.History().Len()),
		fmt.Sprintf("Camera yaw %.0f pitch %.0f", s.yaw, s.pitch),
	}
	if s.m.State() == state.HowToEdit {
		t := s.m.Tutorial()
		lines = append(lines, fmt.Sprintf("Tutorial page %d/%d", t.Step()+1, t.Len()))
	}
	if s.status != "" {
		lines = append(lines, "> "+s.status)
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}

	help := "arrows look  WASD walk  1 home  2 record mode  3 project  R record  Enter next  Backspace reset  N/P pages  L lock  +/- opacity  T tracing  Tab buttons"
	ebitenutil.DebugPrintAt(screen, help, 10, screenHeight-70)

	if s.debug {
		var active []string
		scene.Walk(s.root, func(n scene.Node) bool {
			if !n.Enabled() {
				return false
			}
			active = append(active, n.Name())
			return true
		})
		for i, name := range active {
			ebitenutil.DebugPrintAt(screen, name, screenWidth-140, 10+i*14)
		}
	}
}

func (s *Sim) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
