package game

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/config"
	"github.com/milk9111/lenstrace/frame"
	"github.com/milk9111/lenstrace/imagegen"
	"github.com/milk9111/lenstrace/placement"
	"github.com/milk9111/lenstrace/prefabs"
	"github.com/milk9111/lenstrace/projection"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/state"
	"github.com/milk9111/lenstrace/storage"
	"github.com/milk9111/lenstrace/surface"
	"github.com/milk9111/lenstrace/visibility"
	"github.com/milk9111/lenstrace/voice"
)

var logger = loggo.GetLogger("lenstrace.game")

// ImageSurface displays the current image on the anchor.
type ImageSurface interface {
	SetImage(img imagegen.Image)
	SetOpacity(opacity float32)
}

// Options carries the capabilities the host provides. Any of them may be
// missing; dependent features are then disabled.
type Options struct {
	Config      config.Config
	Root        scene.Node
	HitTester   surface.HitTester
	Transcriber voice.Transcriber
	Generator   imagegen.Generator
	Store       storage.Store
	Clock       clock.Clock
	Image       ImageSurface

	// Visibility defaults to prefabs/visibility.yaml.
	Visibility *prefabs.VisibilitySpec
	// Router defaults to the configured voice script.
	Router *voice.Router
}

// Manager is the application façade. Buttons and voice commands call its
// actions; hosts call Update once per frame.
type Manager struct {
	cfg  config.Config
	root scene.Node

	states     *state.Manager
	exclusions *visibility.Exclusions
	ui         *visibility.UIController
	buttons    *visibility.ButtonVisibilityController
	placement  *placement.Controller
	surface    *surface.Controller
	projection *projection.Controller
	voice      *voice.Controller
	router     *voice.Router
	generator  imagegen.Generator
	history    *storage.History
	store      *storage.Guard
	tutorial   *Tutorial
	image      ImageSurface
	loop       *frame.Loop

	ctx    context.Context
	cancel context.CancelFunc

	current    *imagegen.Image
	generating bool
	genSeq     uint64
	locked     bool
	opacity    float32

	OnStateChange     func(state.ChangeEvent)
	OnSubStateChange  func(state.SubState)
	OnLockChange      func(locked bool)
	OnOpacityChange   func(opacity float32)
	OnPlacementChange func(placed bool)
	OnImage           func(img imagegen.Image)
	OnError           func(err error)
}

func New(opts Options) (*Manager, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	spec := opts.Visibility
	if spec == nil {
		loaded, err := prefabs.LoadVisibilitySpec()
		if err != nil {
			return nil, errors.Annotate(err, "load visibility table")
		}
		spec = loaded
	}
	uiTable, err := visibility.TableFromSpec(spec.UI)
	if err != nil {
		return nil, errors.Annotate(err, "ui")
	}
	buttonTable, err := visibility.TableFromSpec(spec.Buttons)
	if err != nil {
		return nil, errors.Annotate(err, "buttons")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:       cfg,
		root:      opts.Root,
		states:    state.NewManager(),
		generator: opts.Generator,
		image:     opts.Image,
		ctx:       ctx,
		cancel:    cancel,
		opacity:   1,
	}
	if opts.Root == nil {
		logger.Warningf("no scene root wired; scene updates are skipped")
	}

	m.exclusions = visibility.NewExclusions(exclusionNames(cfg.Scene, spec.Exclusions)...)
	m.exclusions.Mark(opts.Root)

	m.ui = visibility.NewUIController(opts.Root, uiTable)
	m.buttons = visibility.NewButtonVisibilityController(opts.Root, buttonTable)
	visibility.Bind(m.states, m.ui, m.buttons)

	names := cfg.Scene
	camera := m.find(names.Camera)
	m.placement = placement.NewController(m.find(names.Anchor), placement.Config{
		ResetCooldown: cfg.Placement.ResetCooldown,
		DefaultPose:   placement.InFrontOf(camera, cfg.Placement.DefaultDistance),
	})
	m.placement.OnPlacementChanged = m.placementChanged
	m.surface = surface.NewController(opts.HitTester, camera, m.placement, surface.Config{
		RayLength:      cfg.Surface.RayLength,
		Threshold:      cfg.Surface.FloorThreshold,
		FloorZOffset:   cfg.Surface.FloorZOffset,
		CeilingZOffset: cfg.Surface.CeilingZOffset,
	})
	m.projection = projection.NewController(m.states, m.placement, m.surface, projection.Nodes{
		PlaceButton:     m.find(names.PlaceButton),
		ConfirmButton:   m.find(names.ConfirmButton),
		ResetButton:     m.find(names.ResetButton),
		TutorialRoot:    m.find(names.TutorialRoot),
		TutorialNav:     m.find(names.TutorialNav),
		ProjectionGuide: m.find(names.ProjectionGuide),
		GuideBackground: m.find(names.GuideBackground),
	})
	m.projection.OnPlaced = m.imagePlaced
	m.projection.OnConfirm = m.GoToHowToEdit
	m.tutorial = NewTutorial(m.find(names.TutorialRoot))

	m.loop = frame.NewLoop(m.projection)

	m.voice = voice.NewController(opts.Transcriber, m.loop.Timers, m.loop.Mailbox, cfg.Voice.Timeout)
	m.voice.OnResult = m.HandleTranscript
	m.voice.OnError = m.voiceFailed

	m.router = opts.Router
	if m.router == nil {
		r, err := voice.NewRouter(cfg.Voice.Script)
		if err != nil {
			cancel()
			return nil, errors.Annotate(err, "voice commands")
		}
		m.router = r
	}

	m.store = storage.NewGuard(opts.Store)
	m.history = storage.NewHistory(m.store, opts.Clock, cfg.History.MaxEntries)

	m.states.AddStateListener(m.stateChanged)
	m.states.AddSubStateListener(m.subStateChanged)
	return m, nil
}

func exclusionNames(names config.SceneNames, extra []string) []string {
	out := []string{
		names.PlaceButton,
		names.ConfirmButton,
		names.ResetButton,
		names.TutorialRoot,
		names.TutorialNav,
		names.ProjectionGuide,
	}
	return append(out, extra...)
}

func (m *Manager) find(name string) scene.Node {
	if m.root == nil || name == "" {
		return nil
	}
	n := scene.Find(m.root, name)
	if n == nil {
		logger.Warningf("scene node %q not found", name)
	}
	return n
}

// Start enters INTRO. It must be called once after hooks are set.
func (m *Manager) Start() {
	m.states.SetState(state.Intro)
}

// Update advances one frame of dt seconds.
func (m *Manager) Update(dt float64) {
	if m == nil {
		return
	}
	m.loop.Tick(dt)
}

// Close cancels in-flight generation.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.cancel()
	m.voice.Cancel()
}

func (m *Manager) stateChanged(evt state.ChangeEvent) {
	if evt.Current == state.HowToEdit {
		m.tutorial.Start()
	}
	if m.OnStateChange != nil {
		m.OnStateChange(evt)
	}
}

func (m *Manager) subStateChanged(sub state.SubState) {
	if m.OnSubStateChange != nil {
		m.OnSubStateChange(sub)
	}
}

func (m *Manager) placementChanged(placed bool) {
	if m.OnPlacementChange != nil {
		m.OnPlacementChange(placed)
	}
}

func (m *Manager) imagePlaced() {
	logger.Infof("image placed at %v", *m.placement.State().LastPosition)
}

func (m *Manager) fail(err error) {
	logger.Warningf("%v", err)
	if m.OnError != nil {
		m.OnError(err)
	}
}

// ReloadVisibility re-reads the visibility table and re-applies it to the
// current state.
func (m *Manager) ReloadVisibility() error {
	spec, err := prefabs.LoadVisibilitySpec()
	if err != nil {
		return errors.Trace(err)
	}
	uiTable, err := visibility.TableFromSpec(spec.UI)
	if err != nil {
		return errors.Annotate(err, "ui")
	}
	buttonTable, err := visibility.TableFromSpec(spec.Buttons)
	if err != nil {
		return errors.Annotate(err, "buttons")
	}
	m.exclusions = visibility.NewExclusions(exclusionNames(m.cfg.Scene, spec.Exclusions)...)
	m.exclusions.Mark(m.root)
	m.ui.SetTable(uiTable)
	m.buttons.SetTable(buttonTable)

	s, sub := m.states.CurrentState(), m.states.CurrentSubState()
	m.ui.Refresh(s, sub)
	m.buttons.Refresh(s, sub)
	logger.Infof("visibility table reloaded")
	return nil
}

// ReloadVoiceCommands recompiles the voice command script.
func (m *Manager) ReloadVoiceCommands() error {
	if m.router == nil {
		return errors.NotFoundf("voice router")
	}
	return m.router.Reload()
}

func (m *Manager) State() state.AppState {
	return m.states.CurrentState()
}

func (m *Manager) SubState() state.SubState {
	return m.states.CurrentSubState()
}

// Placement returns a copy of the anchor placement state.
func (m *Manager) Placement() placement.State {
	return m.placement.State()
}

func (m *Manager) ButtonsShown() bool {
	return m.projection.ButtonsShown()
}

func (m *Manager) HasGeneratedImage() bool {
	return m.current != nil
}

// CurrentImage returns the image being previewed or projected.
func (m *Manager) CurrentImage() (imagegen.Image, bool) {
	if m.current == nil {
		return imagegen.Image{}, false
	}
	return *m.current, true
}

func (m *Manager) History() *storage.History {
	return m.history
}

func (m *Manager) Tutorial() *Tutorial {
	return m.tutorial
}

func (m *Manager) Recording() bool {
	return m.voice.Recording()
}

func (m *Manager) Generating() bool {
	return m.generating
}

func (m *Manager) Locked() bool {
	return m.locked
}

func (m *Manager) Opacity() float32 {
	return m.opacity
}

// Mailbox accepts callbacks from other goroutines to run on the next frame.
func (m *Manager) Mailbox() *frame.Mailbox {
	return m.loop.Mailbox
}
