package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/config"
	"github.com/milk9111/lenstrace/game"
	"github.com/milk9111/lenstrace/imagegen"
	"github.com/milk9111/lenstrace/prefabs"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/storage"
	"github.com/milk9111/lenstrace/storage/sqlite"
	"github.com/milk9111/lenstrace/surface"
	"github.com/milk9111/lenstrace/voice"
)

func main() {
	storeDriver := flag.String("store", "", "store driver: memory or sqlite (overrides config)")
	dbPath := flag.String("db", "", "sqlite database path (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *debug {
		cfg.LogConfig = "<root>=DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := loggo.ConfigureLoggers(cfg.LogConfig); err != nil {
		log.Printf("invalid log config %q: %v", cfg.LogConfig, err)
	}

	root, err := scene.LoadScene(prefabs.SceneFile)
	if err != nil {
		log.Fatal(err)
	}

	store, closeStore := openStore(cfg.Store)
	defer closeStore()

	room := surface.NewBoxRoom(roomHalfWidth, roomHalfDepth, roomHeight)
	speech := &voice.Scripted{}
	view := NewImageView()
	m, err := game.New(game.Options{
		Config:      cfg,
		Root:        root,
		HitTester:   room,
		Transcriber: speech,
		Generator:   imagegen.NewSwatch(),
		Store:       store,
		Clock:       clock.WallClock,
		Image:       view,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	sim := NewSim(m, root, cfg.Scene, room, speech, view, watcher, *debug)
	m.Start()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("lenstrace simulator")
	if err := ebiten.RunGame(sim); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.StoreConfig) (storage.Store, func()) {
	if cfg.Driver != config.StoreSQLite {
		return storage.NewMemory(), func() {}
	}
	s, err := sqlite.Open(cfg.Path)
	if err != nil {
		// The manager disables persistence when the store is missing.
		log.Printf("sqlite store unavailable: %v", err)
		return nil, func() {}
	}
	return s, func() { _ = s.Close() }
}
