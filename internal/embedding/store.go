// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomtom215/vocatio/internal/config"
	"github.com/tomtom215/vocatio/internal/recommend"
)

// Key prefixes for BadgerDB storage.
const (
	resumeKeyPrefix = "resume:"
	jobKeyPrefix    = "job:"
)

// ErrDimensionMismatch is returned when a stored or supplied vector does not
// match the configured dimensionality.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Store persists resume and job embedding vectors in BadgerDB, with an
// in-process LRU over recently used single vectors. Implements
// recommend.EmbeddingStore.
type Store struct {
	db   *badger.DB
	dims int
	hot  *lru.Cache[string, []float32]
}

// NewStore opens the embedding store. An empty path runs Badger in memory.
func NewStore(cfg *config.EmbeddingConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open embedding store: %w", err)
	}

	hot, err := lru.New[string, []float32](cfg.HotCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create hot cache: %w", err)
	}

	return &Store{db: db, dims: cfg.Dimensions, hot: hot}, nil
}

// Close closes the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dimensions returns the configured vector length.
func (s *Store) Dimensions() int {
	return s.dims
}

// PutResumeEmbedding stores the embedding for a resume, replacing any
// previous vector.
func (s *Store) PutResumeEmbedding(_ context.Context, resumeID int64, vec []float32) error {
	return s.put(resumeKey(resumeID), vec)
}

// PutJobEmbedding stores the embedding for a job, replacing any previous
// vector.
func (s *Store) PutJobEmbedding(_ context.Context, jobID int64, vec []float32) error {
	return s.put(jobKey(jobID), vec)
}

// ResumeEmbedding returns the embedding for a resume.
func (s *Store) ResumeEmbedding(_ context.Context, resumeID int64) ([]float32, error) {
	vec, err := s.get(resumeKey(resumeID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &recommend.NotFoundError{Kind: "resume embedding", ID: resumeID}
	}
	return vec, err
}

// JobEmbedding returns the embedding for a job.
func (s *Store) JobEmbedding(_ context.Context, jobID int64) ([]float32, error) {
	vec, err := s.get(jobKey(jobID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &recommend.NotFoundError{Kind: "job embedding", ID: jobID}
	}
	return vec, err
}

// JobEmbeddings returns all stored job embeddings. The result is a fresh map
// the caller may mutate.
func (s *Store) JobEmbeddings(_ context.Context) (map[int64][]float32, error) {
	out := make(map[int64][]float32)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id, err := idFromKey(string(item.Key()), jobKeyPrefix)
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vec, derr := decodeVector(val)
				if derr != nil {
					return derr
				}
				out[id] = vec
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate job embeddings: %w", err)
	}
	return out, nil
}

// DeleteJobEmbedding removes a job's embedding. Missing keys are not an
// error.
func (s *Store) DeleteJobEmbedding(_ context.Context, jobID int64) error {
	key := jobKey(jobID)
	s.hot.Remove(key)
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Counts returns how many resumes and jobs have stored embeddings.
func (s *Store) Counts(_ context.Context) (resumes, jobs int, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			switch {
			case strings.HasPrefix(key, resumeKeyPrefix):
				resumes++
			case strings.HasPrefix(key, jobKeyPrefix):
				jobs++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("count embeddings: %w", err)
	}
	return resumes, jobs, nil
}

func (s *Store) put(key string, vec []float32) error {
	if len(vec) != s.dims {
		return fmt.Errorf("%w: got %d values, store expects %d", ErrDimensionMismatch, len(vec), s.dims)
	}

	data := encodeVector(vec)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("store embedding %s: %w", key, err)
	}

	// Replace rather than invalidate so a hot key stays hot.
	s.hot.Add(key, vec)
	return nil
}

func (s *Store) get(key string) ([]float32, error) {
	if vec, ok := s.hot.Get(key); ok {
		return vec, nil
	}

	var vec []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var derr error
			vec, derr = decodeVector(val)
			return derr
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load embedding %s: %w", key, err)
	}

	s.hot.Add(key, vec)
	return vec, nil
}

func resumeKey(id int64) string {
	return resumeKeyPrefix + strconv.FormatInt(id, 10)
}

func jobKey(id int64) string {
	return jobKeyPrefix + strconv.FormatInt(id, 10)
}

func idFromKey(key, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed embedding key %q: %w", key, err)
	}
	return id, nil
}

// encodeVector packs a vector as little-endian float32 bits.
func encodeVector(vec []float32) []byte {
	data := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return data
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt embedding value: %d bytes", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
