// Command sandbench runs the sandbox headless over a range of seeds and
// reports per-seed throughput, movement and a checksum of the final grid.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"time"

	"mad-sand/internal/app"
	"mad-sand/internal/journal"
	"mad-sand/internal/sims/sandbox"
)

func main() {
	def := sandbox.DefaultConfig()
	scene := flag.String("scene", def.Scene, "scene to run")
	width := flag.Int("w", def.Width, "grid width in cells")
	height := flag.Int("h", def.Height, "grid height in cells")
	catalog := flag.String("catalog", "", "material catalog YAML (default: built-in)")
	first := flag.Int64("seed", def.Seed, "first seed")
	count := flag.Int("seeds", 8, "number of consecutive seeds")
	ticks := flag.Int("ticks", 600, "ticks to simulate per seed")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	verify := flag.Bool("verify", false, "run every seed twice and compare checksums")
	snapDir := flag.String("snapdir", "", "write the final snapshot of each seed into this directory")
	journalPath := flag.String("journal", "", "record every reaction into this SQLite file")
	params := app.ParamFlags{}
	flag.Var(params, "set", "rule tunable as key=value (repeatable)")
	flag.Parse()

	m := map[string]string{
		"w":     strconv.Itoa(*width),
		"h":     strconv.Itoa(*height),
		"scene": *scene,
	}
	if *catalog != "" {
		m["catalog"] = *catalog
	}
	for k, v := range params {
		m[k] = v
	}
	rn := runner{base: sandbox.FromMap(m), ticks: *ticks, snapDir: *snapDir}

	var jr *journal.Journal
	if *journalPath != "" {
		var err error
		jr, err = journal.OpenSQLite(*journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		rn.observer = jr
	}

	seeds := make([]int64, *count)
	for i := range seeds {
		seeds[i] = *first + int64(i)
	}

	fmt.Printf("Running %d seeds of %q at %dx%d (%d workers, %d ticks)\n",
		len(seeds), rn.base.Scene, rn.base.Width, rn.base.Height, *workers, *ticks)

	start := time.Now()
	results := rn.sweep(seeds, *workers)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
		fmt.Println(r)
	}
	fmt.Printf("\nElapsed %s\n", time.Since(start).Round(time.Millisecond))

	if *verify {
		again := runner{base: rn.base, ticks: rn.ticks}.sweep(seeds, *workers)
		for i, r := range again {
			if r.checksum != results[i].checksum {
				log.Printf("seed %d diverged: %s vs %s", r.seed, results[i].checksum, r.checksum)
				failed++
			}
		}
		if failed == 0 {
			fmt.Println("All seeds reproduced bit-identically")
		}
	}

	if jr != nil {
		summarize(jr)
		if err := jr.Close(); err != nil {
			log.Printf("close journal: %v", err)
		}
	}
	if failed > 0 {
		log.Fatalf("%d runs failed", failed)
	}
}

func summarize(jr *journal.Journal) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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
	n, err := jr.Reactions(ctx)
	if err != nil {
		log.Printf("journal query: %v", err)
		return
	}
	fmt.Printf("Journal: %d reactions, %d distinct, %d dropped\n", n, len(combos), jr.Dropped())
}
