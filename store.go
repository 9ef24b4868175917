package bluechip

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
)

// Store loads and saves the portfolio State.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// Default file names of a FileStore.
const (
	PositionsFile = "portfolio_save.csv"
	CashFile      = "cash_save.txt"
	CapitalFile   = "capital_save.txt"
)

// FileStore persists the State as three human readable files in Dir: the
// positions table, the cash balance and the total invested capital.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore in dir, "." if empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{Dir: dir}
}

// Load reads the State. Missing files are the empty portfolio, zero cash and
// zero capital, as on the very first run.
func (s *FileStore) Load() (State, error) {
	var st State

	content, err := s.read(PositionsFile)
	if err != nil {
		return st, err
	}
	if st.Positions, err = DecodePositions(bytes.NewReader(content)); err != nil {
		return st, fmt.Errorf("decoding %s: %w", s.path(PositionsFile), err)
	}

	if st.Cash, err = s.readAmount(CashFile); err != nil {
		return st, err
	}
	if st.TotalInvested, err = s.readAmount(CapitalFile); err != nil {
		return st, err
	}
	return st, nil
}

// Save writes the three files, each one atomically.
func (s *FileStore) Save(st State) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	var b bytes.Buffer
	if err := EncodePositions(&b, st.Positions); err != nil {
		return fmt.Errorf("encoding positions: %w", err)
	}
	if err := atomicWrite(s.path(PositionsFile), b.Bytes()); err != nil {
		return err
	}
	if err := atomicWrite(s.path(CashFile), []byte(st.Cash.String()+"\n")); err != nil {
		return err
	}
	return atomicWrite(s.path(CapitalFile), []byte(st.TotalInvested.String()+"\n"))
}

func (s *FileStore) path(name string) string { return filepath.Join(s.Dir, name) }

// read returns the file content, nil if it does not exist.
func (s *FileStore) read(name string) ([]byte, error) {
	content, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return content, err
}

func (s *FileStore) readAmount(name string) (decimal.Decimal, error) {
	content, err := s.read(name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decodeAmount(content)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decoding %s: %w", s.path(name), err)
	}
	return d, nil
}

// atomicWrite writes into a temporary file in the same folder and renames it.
func atomicWrite(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// MemoryStore keeps the State in memory. Saves counts the calls to Save.
type MemoryStore struct {
	mu    sync.Mutex
	state State
	Saves int
}

func (m *MemoryStore) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone(), nil
}

func (m *MemoryStore) Save(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.clone()
	m.Saves++
	return nil
}
