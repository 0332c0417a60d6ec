// Package snapshot persists a world losslessly: every non-empty chunk's cells
// as (material, flags, velocity) triples plus every chunk's scheduling state,
// so a restored run continues exactly like the original. Snapshots without
// scheduling state load with every chunk active.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// Version is the current snapshot layout.
const Version = 1

const cellBytes = 3

// ErrMismatch reports a snapshot taken with different dimensions or a
// different material catalog.
var ErrMismatch = errors.New("snapshot does not match world")

type Header struct {
	Version       int    `json:"version"`
	Tick          uint64 `json:"tick"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	CatalogDigest string `json:"catalog_digest"`
}

type ChunkV1 struct {
	CX    int    `json:"cx"`
	CY    int    `json:"cy"`
	Cells []byte `json:"cells"`
}

// ScheduleV1 is one chunk's active flag and sleep counter.
type ScheduleV1 struct {
	CX     int  `json:"cx"`
	CY     int  `json:"cy"`
	Active bool `json:"active"`
	Sleep  int  `json:"sleep"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	RNG         uint32 `json:"rng"`
	LeftToRight bool   `json:"left_to_right"`

	Chunks   []ChunkV1    `json:"chunks"`
	Schedule []ScheduleV1 `json:"schedule"`
}

// Capture copies the world's cells. tick and leftToRight are the
// scheduler's counters at the time of capture.
func Capture(w *world.World, tick uint64, leftToRight bool) SnapshotV1 {
	snap := SnapshotV1{
		Header: Header{
			Version:       Version,
			Tick:          tick,
			Width:         w.Width(),
			Height:        w.Height(),
			CatalogDigest: w.Catalog().Digest(),
		},
		RNG:         w.RNGState(),
		LeftToRight: leftToRight,
	}
	for cy := 0; cy < w.ChunksY(); cy++ {
		for cx := 0; cx < w.ChunksX(); cx++ {
			ch := w.Chunk(cx, cy)
			snap.Schedule = append(snap.Schedule, ScheduleV1{CX: cx, CY: cy, Active: ch.Active(), Sleep: ch.SleepCounter()})
			buf := make([]byte, 0, world.ChunkArea*cellBytes)
			occupied := false
			for ly := 0; ly < world.ChunkSize; ly++ {
				for lx := 0; lx < world.ChunkSize; lx++ {
					c := ch.Cell(lx, ly)
					if c.Material != material.Empty {
						occupied = true
					}
					buf = append(buf, byte(c.Material), c.Flags, byte(c.VelY))
				}
			}
			if occupied {
				snap.Chunks = append(snap.Chunks, ChunkV1{CX: cx, CY: cy, Cells: buf})
			}
		}
	}
	return snap
}

// Apply replaces the world's contents with snap. The world must have the
// same dimensions and catalog the snapshot was taken with.
func Apply(w *world.World, snap SnapshotV1) error {
	h := snap.Header
	if h.Version != Version {
		return fmt.Errorf("snapshot version %d: unsupported", h.Version)
	}
	if h.Width != w.Width() || h.Height != w.Height() {
		return fmt.Errorf("%w: size %dx%d, world %dx%d", ErrMismatch, h.Width, h.Height, w.Width(), w.Height())
	}
	if h.CatalogDigest != w.Catalog().Digest() {
		return fmt.Errorf("%w: catalog digest %s", ErrMismatch, h.CatalogDigest)
	}
	for i, ch := range snap.Chunks {
		if ch.CX < 0 || ch.CX >= w.ChunksX() || ch.CY < 0 || ch.CY >= w.ChunksY() {
			return fmt.Errorf("chunk %d: coordinates (%d,%d) out of range", i, ch.CX, ch.CY)
		}
		if len(ch.Cells) != world.ChunkArea*cellBytes {
			return fmt.Errorf("chunk %d: %d bytes, want %d", i, len(ch.Cells), world.ChunkArea*cellBytes)
		}
	}
	for i, sc := range snap.Schedule {
		if sc.CX < 0 || sc.CX >= w.ChunksX() || sc.CY < 0 || sc.CY >= w.ChunksY() {
			return fmt.Errorf("schedule %d: coordinates (%d,%d) out of range", i, sc.CX, sc.CY)
		}
	}

	w.Clear()
	for _, ch := range snap.Chunks {
		x0, y0 := ch.CX*world.ChunkSize, ch.CY*world.ChunkSize
		for j := 0; j < world.ChunkArea; j++ {
			x, y := x0+j%world.ChunkSize, y0+j/world.ChunkSize
			if !w.InBounds(x, y) {
				continue
			}
			b := ch.Cells[j*cellBytes:]
			c := world.Cell{Material: material.ID(b[0]), Flags: b[1], VelY: int8(b[2])}
			if _, ok := w.Catalog().Def(c.Material); !ok || c.Material == material.Boundary {
				c = world.Cell{}
			}
			w.RestoreCell(x, y, c)
		}
	}
	if len(snap.Schedule) == 0 {
		w.ActivateAll()
	}
	for _, sc := range snap.Schedule {
		w.RestoreSchedule(sc.CX, sc.CY, sc.Active, sc.Sleep)
	}
	w.Seed(snap.RNG)
	return nil
}

// Encode writes snap as a JSON header line followed by a gob body, all
// zstd-compressed.
func Encode(dst io.Writer, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a snapshot written by Encode.
func Decode(src io.Reader) (SnapshotV1, error) {
	var snap SnapshotV1
	dec, err := zstd.NewReader(src)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return snap, fmt.Errorf("parse header: %w", err)
	}
	if h.Version != Version {
		return snap, fmt.Errorf("snapshot version %d: unsupported", h.Version)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader returns only the header line, without decoding the cells.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("parse header: %w", err)
	}
	return h, nil
}

func WriteFile(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (SnapshotV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer f.Close()
	return Decode(f)
}
