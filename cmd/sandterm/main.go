package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/app"
	"mad-sand/internal/journal"
	"mad-sand/internal/sims/sandbox"
	"mad-sand/internal/sound"
	"mad-sand/internal/termview"
)

func main() {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height = 160, 96
	cfg.Bind(flag.CommandLine)
	withSound := flag.Bool("sound", false, "play a tone for each reaction")
	journalPath := flag.String("journal", "", "record reactions into this SQLite file")
	flag.Parse()

	var observers []sandbox.Observer

	var player *sound.Player
	if *withSound {
		player = sound.New(sound.DefaultConfig())
		if err := player.Start(); err != nil {
			// Non-fatal, the sandbox runs without sound.
			log.Printf("audio init failed: %v", err)
		} else {
			observers = append(observers, player)
		}
		defer player.Close()
	}

	var jr *journal.Journal
	if *journalPath != "" {
		var err error
		jr, err = journal.OpenSQLite(*journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer jr.Close()
		observers = append(observers, jr)
	}

	sim, err := cfg.NewSimulation(sandbox.WithObserver(sandbox.Observers(observers...)))
	if err != nil {
		log.Fatal(err)
	}
	if jr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := jr.RecordCatalog(ctx, sim.Catalog())
		cancel()
		if err != nil {
			log.Fatalf("journal catalog: %v", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	view := termview.New(screen, sim, termview.Config{
		TPS:      cfg.TPS,
		Radius:   cfg.Radius,
		Seed:     cfg.Seed,
		SavePath: cfg.Save,
	})
	view.Run()
	screen.Fini()

	log.Printf("stopped at tick %d", sim.Tick())
	if jr != nil {
		report(jr, sim)
	}
}

func report(jr *journal.Journal, sim *sandbox.Simulation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := jr.Flush(ctx); err != nil {
		log.Printf("journal flush: %v", err)
		return
	}
	combos, err := jr.Combinations(ctx)
	if err != nil {
		log.Printf("journal query: %v", err)
		return
	}
	cat := sim.Catalog()
	for _, c := range combos {
		log.Printf("tick %6d  %s + %s -> %s + %s  x%d",
			c.FirstTick, cat.Name(c.A), cat.Name(c.B), cat.Name(c.OutA), cat.Name(c.OutB), c.Count)
	}
	if d := jr.Dropped(); d > 0 {
		log.Printf("journal dropped %d events", d)
	}
}
