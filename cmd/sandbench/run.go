package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"mad-sand/internal/sims/sandbox"
)

type job struct {
	seed int64
}

type result struct {
	seed      int64
	ticks     int
	elapsed   time.Duration
	moves     int
	visited   int
	peakChunk int
	reactions int
	occupied  int
	checksum  string
	err       error
}

func (r result) String() string {
	if r.err != nil {
		return fmt.Sprintf("seed=%d error: %v", r.seed, r.err)
	}
	perTick := time.Duration(0)
	if r.ticks > 0 {
		perTick = r.elapsed / time.Duration(r.ticks)
	}
	return fmt.Sprintf("seed=%d ticks=%d tick=%s moves=%d visited=%d peakChunks=%d reactions=%d occupied=%d sum=%s",
		r.seed, r.ticks, perTick, r.moves, r.visited, r.peakChunk, r.reactions, r.occupied, r.checksum)
}

type runner struct {
	base     sandbox.Config
	ticks    int
	snapDir  string
	observer sandbox.Observer
}

// runSeed plays one scene from seed for the configured number of ticks.
func (rn runner) runSeed(seed int64) result {
	cfg := rn.base
	cfg.Seed = seed
	res := result{seed: seed}

	var reactions int
	obs := sandbox.Observers(rn.observer, sandbox.ObserverFunc(func(sandbox.Reaction) { reactions++ }))
	sim, err := sandbox.New(cfg, sandbox.WithObserver(obs))
	if err != nil {
		res.err = err
		return res
	}

	start := time.Now()
	for i := 0; i < rn.ticks; i++ {
		sim.Step()
		st := sim.Stats()
		res.moves += st.UpdatedCells
		res.visited += st.VisitedCells
		res.peakChunk = max(res.peakChunk, st.ActiveChunks)
	}
	res.elapsed = time.Since(start)
	res.ticks = rn.ticks
	res.reactions = reactions
	res.occupied = sim.World().NonEmpty()
	res.checksum = checksum(sim.Cells())

	if rn.snapDir != "" {
		path := filepath.Join(rn.snapDir, fmt.Sprintf("seed-%d.snap", seed))
		if err := sim.SaveSnapshot(path); err != nil {
			res.err = err
		}
	}
	return res
}

// sweep runs every seed on a pool of workers and returns the results
// ordered by seed.
func (rn runner) sweep(seeds []int64, workers int) []result {
	workers = max(workers, 1)
	jobs := make(chan job)
	results := make(chan result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- rn.runSeed(j.seed)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, s := range seeds {
			jobs <- job{seed: s}
		}
		close(jobs)
	}()

	var all []result
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seed < all[j].seed })
	return all
}

func checksum(cells []uint8) string {
	sum := sha256.Sum256(cells)
	return hex.EncodeToString(sum[:8])
}
