package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"

	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/hash"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

var (
	// ErrVersionMismatch indicates a snapshot written by another format version.
	ErrVersionMismatch = errors.New("state version mismatch")

	// ErrCorrupt indicates a snapshot whose content doesn't match its digest.
	ErrCorrupt = errors.New("state is corrupt")
)

// envelope is the on-disk form of a snapshot, before compression.
type envelope struct {
	Version int             `json:"version"`
	Digest  digest.Digest   `json:"digest"`
	State   json.RawMessage `json:"state"`
}

// StateStore persists system state snapshots.
type StateStore interface {
	// Load loads a snapshot from path.
	// Returns os.ErrNotExist if the snapshot doesn't exist.
	Load(path string) (*SystemState, error)

	// Save saves a snapshot to path atomically.
	Save(path string, state *SystemState) error
}

// FileStateStore implements StateStore using compressed JSON files.
type FileStateStore struct {
	fs     fsops.FS
	hasher hash.Hasher
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, hasher hash.Hasher) *FileStateStore {
	return &FileStateStore{
		fs:     fs,
		hasher: hasher,
	}
}

// Load loads and verifies a snapshot.
func (s *FileStateStore) Load(path string) (*SystemState, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return Decode(data)
}

// Save encodes and atomically writes a snapshot.
func (s *FileStateStore) Save(path string, state *SystemState) error {
	data, err := Encode(s.hasher, state)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Encode serializes and compresses a snapshot.
func Encode(hasher hash.Hasher, state *SystemState) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	env, err := json.Marshal(envelope{
		Version: Version,
		Digest:  hasher.DigestBytes(raw),
		State:   raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state envelope: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(env, nil), nil
}

// Decode decompresses, verifies and parses a snapshot.
func Decode(data []byte) (*SystemState, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: got v%d, expected v%d", ErrVersionMismatch, env.Version, Version)
	}
	if err := hash.Verify(env.Digest, env.State); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var state SystemState
	if err := json.Unmarshal(env.State, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if state.PartitionFiles == nil {
		state.PartitionFiles = make(map[partition.Partition][]string)
	}
	return &state, nil
}
