// Package app constructs and owns the application root: one explicit
// store object wired by reference into every component, built once at
// startup and torn down at exit.
package app

import (
	"fmt"
	"os"

	"github.com/refdeck/refdeck/internal/blob"
	"github.com/refdeck/refdeck/internal/collection"
	"github.com/refdeck/refdeck/internal/config"
	"github.com/refdeck/refdeck/internal/persist"
	"github.com/refdeck/refdeck/internal/schedule"
)

// View receives refresh callbacks from the scheduler passes. It is
// the seam for an interactive frontend: a long-lived UI installs one
// via SetView and gets incremental patches (single-record updates,
// stats, full list regeneration) as edits settle. The one-shot CLI
// commands render their result directly and leave the view nil, which
// turns the render half of each pass into a no-op while the persist
// half still runs.
type View interface {
	PatchRecord(id int)
	RenderList()
	RenderStats(collection.Stats)
}

// App is the application root.
type App struct {
	Root       string
	Config     *config.Config
	Collection *collection.Collection
	Scheduler  *schedule.Scheduler
	Store      *persist.Store
	Blobs      *blob.Store
	Opener     *blob.Opener

	view View

	// Degraded is set when the last save had to fall back to the
	// compacted payload.
	Degraded bool
}

// Options tune how the root is assembled.
type Options struct {
	// Confirm gates destructive operations. Nil means always yes.
	Confirm func(prompt string) bool

	// Report surfaces scheduler recovery notices. Defaults to stderr.
	Report func(msg string)
}

// Open builds the application root for a deck and loads the persisted
// snapshot into the collection.
func Open(root string, opts Options) (*App, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if cfg.PDFReader == "" {
		if global, err := config.LoadGlobalConfig(); err == nil {
			cfg.PDFReader = global.PDFReader
		}
	}

	store, err := persist.Open(config.SnapshotPath(root))
	if err != nil {
		return nil, err
	}
	if cfg.MaxSnapshotBytes > 0 {
		store.SetMaxSnapshotBytes(cfg.MaxSnapshotBytes)
	}

	blobs := blob.NewStore(config.PDFPath(root))

	a := &App{
		Root:   root,
		Config: cfg,
		Store:  store,
		Blobs:  blobs,
		Opener: blob.NewOpener(blobs, cfg.PDFReader),
	}

	report := opts.Report
	if report == nil {
		report = func(msg string) { fmt.Fprintf(os.Stderr, "error: %s\n", msg) }
	}

	a.Scheduler = schedule.New(schedule.Passes{
		FramePass: a.framePass,
		ListPass:  a.listPass,
		Report:    report,
	})

	a.Collection = collection.New(collection.Hooks{
		Scheduler:    a.Scheduler,
		Blobs:        blobs,
		Gate:         a.Scheduler.Gate(),
		Confirm:      opts.Confirm,
		PersistNow:   store.SaveNow,
		WipeSnapshot: store.Wipe,
	})

	store.Source = func() persist.Snapshot {
		return persist.Snapshot{
			Papers: a.Collection.List(),
			NextID: a.Collection.NextID(),
		}
	}
	store.OnDegraded = func() { a.Degraded = true }

	snap, ok, err := store.Load()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if ok {
		a.Collection.Replace(snap.Papers, snap.NextID)
	}

	return a, nil
}

// SetView installs the rendering target for scheduler passes.
func (a *App) SetView(v View) { a.view = v }

// Close flushes pending scheduled work and releases resources.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Flush()
		a.Scheduler.Stop()
	}
	return a.Store.Close()
}

// framePass is the frame-channel work: one stats pass over all
// records, a (cooldown-limited) persist, and a patch of the single
// changed record's rendered state.
func (a *App) framePass(recordID int) error {
	stats := a.Collection.ComputeStats()
	if a.view != nil {
		a.view.RenderStats(stats)
		if recordID > 0 {
			a.view.PatchRecord(recordID)
		}
	}
	return a.Store.Save()
}

// listPass regenerates the full visible list.
func (a *App) listPass() error {
	if a.view != nil {
		a.view.RenderList()
	}
	return nil
}

// Init creates a new deck at root.
func Init(root string) error {
	deckDir := config.DeckPath(root)
	if _, err := os.Stat(deckDir); err == nil {
		return fmt.Errorf("deck already exists at %s", deckDir)
	}
	if err := os.MkdirAll(deckDir, 0755); err != nil {
		return fmt.Errorf("creating deck directory: %w", err)
	}
	cfg := &config.Config{}
	if err := cfg.Save(root); err != nil {
		return err
	}

	// Touch the snapshot database so the deck is self-describing.
	store, err := persist.Open(config.SnapshotPath(root))
	if err != nil {
		return err
	}
	return store.Close()
}
