// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package storage persists collaborative-filtering model snapshots so a
// restarted server can warm-start before its first rebuild.
//
// Snapshots are gob-encoded, gzip-compressed, and carry a SHA-256 checksum
// that is verified on load; a corrupt file is reported rather than silently
// restored. Writes go through a temp file and an atomic rename so a crash
// mid-save never clobbers the previous snapshot.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/vocatio/internal/recommend/cf"
)

// snapshotFile is the single snapshot filename inside the store directory.
const snapshotFile = "cfmodel.gob.gz"

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no model snapshot stored")

// ErrChecksumMismatch is returned by Load when the stored payload does not
// match its recorded checksum.
var ErrChecksumMismatch = errors.New("model snapshot checksum mismatch")

// Metadata describes a stored snapshot.
type Metadata struct {
	// ModelVersion is the engine's rebuild counter at save time.
	ModelVersion int64 `json:"model_version"`

	// BuiltAt is when the model was built; SavedAt when it was persisted.
	BuiltAt time.Time `json:"built_at"`
	SavedAt time.Time `json:"saved_at"`

	// Users, Items, and Interactions are the model dimensions.
	Users        int `json:"users"`
	Items        int `json:"items"`
	Interactions int `json:"interactions"`

	// Checksum is the SHA-256 hex digest of the compressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// envelope is the on-disk layout: metadata plus compressed gob payload.
type envelope struct {
	Meta Metadata
	Data []byte
}

// Store persists one model snapshot in a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates (if needed) the snapshot directory and returns a store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save persists the model snapshot, replacing any previous one atomically.
func (s *Store) Save(model *cf.Model, modelVersion int64) (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot()

	var payload bytes.Buffer
	gz := gzip.NewWriter(&payload)
	if err := gob.NewEncoder(gz).Encode(snap); err != nil {
		return Metadata{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return Metadata{}, fmt.Errorf("compress snapshot: %w", err)
	}

	sum := sha256.Sum256(payload.Bytes())
	stats := model.Stats()
	meta := Metadata{
		ModelVersion: modelVersion,
		BuiltAt:      model.BuiltAt(),
		SavedAt:      time.Now().UTC(),
		Users:        stats.Users,
		Items:        stats.Items,
		Interactions: stats.Interactions,
		Checksum:     hex.EncodeToString(sum[:]),
		SizeBytes:    int64(payload.Len()),
	}

	var file bytes.Buffer
	if err := gob.NewEncoder(&file).Encode(envelope{Meta: meta, Data: payload.Bytes()}); err != nil {
		return Metadata{}, fmt.Errorf("encode envelope: %w", err)
	}

	final := filepath.Join(s.dir, snapshotFile)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, file.Bytes(), 0o640); err != nil { //nolint:gosec // snapshot is not secret material
		return Metadata{}, fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return Metadata{}, fmt.Errorf("publish snapshot: %w", err)
	}

	return meta, nil
}

// Load restores the stored model snapshot, verifying its checksum.
// Returns ErrNoSnapshot when none exists.
func (s *Store) Load() (*cf.Model, Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Metadata{}, ErrNoSnapshot
		}
		return nil, Metadata{}, fmt.Errorf("read snapshot: %w", err)
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, Metadata{}, fmt.Errorf("decode envelope: %w", err)
	}

	sum := sha256.Sum256(env.Data)
	if hex.EncodeToString(sum[:]) != env.Meta.Checksum {
		return nil, Metadata{}, ErrChecksumMismatch
	}

	gz, err := gzip.NewReader(bytes.NewReader(env.Data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer gz.Close() //nolint:errcheck // read side

	var snap cf.Snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return nil, Metadata{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return cf.Restore(&snap), env.Meta, nil
}
