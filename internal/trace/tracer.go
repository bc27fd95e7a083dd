package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Tracer receives stamped events. Implementations are safe for
// concurrent use.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Close() error
}

type nop struct{}

func (nop) Emit(Event)   {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nop{}

// Mode selects where events go.
type Mode uint8

const (
	// ModeStream writes every event as it happens.
	ModeStream Mode = iota + 1
	// ModeRing keeps the last events and writes them on Close.
	ModeRing
	// ModeBoth does both.
	ModeBoth
)

// ParseMode reads a --trace-mode value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

// Config describes a tracer. Output "-" or "" is stderr; a path ending in
// .ndjson or .json selects NDJSON.
type Config struct {
	Level    Level
	Mode     Mode
	Output   string
	RingSize int
}

// New builds the tracer cfg describes.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := FormatText
	if strings.HasSuffix(cfg.Output, ".ndjson") || strings.HasSuffix(cfg.Output, ".json") {
		format = FormatNDJSON
	}
	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.Output != "" && cfg.Output != "-" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("open trace output: %w", err)
		}
		w, closer = f, f
	}
	switch cfg.Mode {
	case ModeStream:
		return &Stream{w: w, closer: closer, level: cfg.Level, format: format}, nil
	case ModeRing:
		return &Ring{buf: make([]Event, max(cfg.RingSize, 1)), level: cfg.Level, dump: w, closer: closer, format: format}, nil
	case ModeBoth:
		// The stream owns the output; the ring tail goes to stderr when
		// the stream is a file.
		ring := &Ring{buf: make([]Event, max(cfg.RingSize, 1)), level: cfg.Level}
		if closer != nil {
			ring.dump = os.Stderr
		}
		return Tee{&Stream{w: w, closer: closer, level: cfg.Level, format: format}, ring}, nil
	}
	if closer != nil {
		closer.Close()
	}
	return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
}

// Stream writes each event immediately. Write errors are dropped so a
// broken sink never fails a run.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format Format
}

// NewStream writes to w without owning it.
func NewStream(w io.Writer, level Level, f Format) *Stream {
	return &Stream{w: w, level: level, format: f}
}

func (s *Stream) Emit(ev Event) {
	data := Render(ev, s.format)
	s.mu.Lock()
	_, _ = s.w.Write(data)
	s.mu.Unlock()
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Ring keeps the newest len(buf) events. When it has a dump writer, Close
// writes them out oldest first.
type Ring struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	full   bool
	level  Level
	dump   io.Writer
	closer io.Closer
	format Format
}

// NewRing keeps the last size events in memory only.
func NewRing(size int, level Level) *Ring {
	return &Ring{buf: make([]Event, max(size, 1)), level: level}
}

func (r *Ring) Emit(ev Event) {
	r.mu.Lock()
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

func (r *Ring) Level() Level { return r.level }

// Snapshot returns the kept events oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := append([]Event(nil), r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Dump writes the snapshot to w.
func (r *Ring) Dump(w io.Writer, f Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(Render(ev, f)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Close() error {
	var err error
	if r.dump != nil {
		err = r.Dump(r.dump, r.format)
	}
	if r.closer != nil {
		err = errors.Join(err, r.closer.Close())
	}
	return err
}

// Tee fans events out to several tracers. Its level is the finest of
// theirs.
type Tee []Tracer

func (t Tee) Emit(ev Event) {
	for _, tr := range t {
		if tr.Level().Keeps(ev.Scope) || ev.Kind == KindPulse {
			tr.Emit(ev)
		}
	}
}

func (t Tee) Level() Level {
	var l Level
	for _, tr := range t {
		l = max(l, tr.Level())
	}
	return l
}

func (t Tee) Close() error {
	var err error
	for _, tr := range t {
		err = errors.Join(err, tr.Close())
	}
	return err
}
