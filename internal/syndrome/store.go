package syndrome

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"qstack/internal/pauli"
)

// Current schema version - increment when diskPayload format changes
const diskSchemaVersion uint16 = 1

// Digest is the SHA-256 of a table key.
type Digest [32]byte

// DigestOf hashes a table key.
func DigestOf(key string) Digest {
	return sha256.Sum256([]byte(key))
}

// DiskStore persists tables as msgpack files named by key digest.
// Thread-safe for concurrent access.
type DiskStore struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema     uint16
	Key        string
	Width      int
	MaxWeight  int
	Generators []string
	Syndromes  []string
	Patterns   []string
}

// OpenDiskStore uses dir, or the user cache directory when dir is empty.
func OpenDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "qstack")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the store's root directory.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) pathFor(key string) string {
	d := DigestOf(key)
	return filepath.Join(s.dir, "tables", hex.EncodeToString(d[:])+".mp")
}

// Put writes t atomically.
func (s *DiskStore) Put(t *Table) (err error) {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(t.Key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(toPayload(t)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the table stored under key. A missing file or a payload from
// another schema version is a miss.
func (s *DiskStore) Get(key string) (*Table, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	if payload.Schema != diskSchemaVersion || payload.Key != key {
		return nil, false, nil
	}
	t, err := fromPayload(&payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	return t, true, nil
}

// Clear removes every stored table.
func (s *DiskStore) Clear() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(filepath.Join(s.dir, "tables"))
}

func toPayload(t *Table) *diskPayload {
	p := &diskPayload{
		Schema:    diskSchemaVersion,
		Key:       t.Key,
		Width:     t.Width,
		MaxWeight: t.MaxWeight,
	}
	p.Generators = make([]string, len(t.Generators))
	for i, g := range t.Generators {
		p.Generators[i] = g.String()
	}
	for _, k := range t.Syndromes() {
		p.Syndromes = append(p.Syndromes, k)
		p.Patterns = append(p.Patterns, t.entries[k].String())
	}
	return p
}

func fromPayload(p *diskPayload) (*Table, error) {
	if len(p.Syndromes) != len(p.Patterns) {
		return nil, fmt.Errorf("%d syndromes for %d patterns", len(p.Syndromes), len(p.Patterns))
	}
	t := &Table{
		Key:        p.Key,
		Width:      p.Width,
		MaxWeight:  p.MaxWeight,
		Generators: make([]pauli.String, len(p.Generators)),
		entries:    make(map[string]pauli.String, len(p.Syndromes)),
	}
	for i, g := range p.Generators {
		s, err := pauli.Parse(g)
		if err != nil {
			return nil, err
		}
		t.Generators[i] = s
	}
	for i, k := range p.Syndromes {
		s, err := pauli.Parse(p.Patterns[i])
		if err != nil {
			return nil, err
		}
		t.entries[k] = s
	}
	return t, nil
}
