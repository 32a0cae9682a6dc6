package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/okian/presale/pkg/metrics"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const defaultKeyPrefix = "presale:"

// LevelDBStore persists values in a LevelDB database on disk.
type LevelDBStore struct {
	mu         sync.RWMutex
	db         *leveldb.DB
	prefix     string
	syncWrites bool
}

// NewLevelDBStore opens (or creates) a LevelDB database at path.
func NewLevelDBStore(path string, opts ...Option) (*LevelDBStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: leveldb path required", ErrOpen)
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve path: %w", ErrOpen, err)
	}
	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	s := &LevelDBStore{db: db, prefix: defaultKeyPrefix}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Get implements Store.
func (s *LevelDBStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return false, ErrClosed
	}

	raw, err := s.db.Get([]byte(s.prefix+key), nil)
	metrics.RecordStoreRead(key)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return false, nil
	case err != nil:
		metrics.RecordStoreError("get")
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.RecordStoreError("decode")
		return false, fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *LevelDBStore) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		metrics.RecordStoreError("encode")
		return fmt.Errorf("%w: %s: %w", ErrEncode, key, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}

	start := time.Now()
	err = s.db.Put([]byte(s.prefix+key), raw, &opt.WriteOptions{Sync: s.syncWrites})
	metrics.RecordStoreWrite(key, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError("put")
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Close implements Store. Closing twice is a no-op.
func (s *LevelDBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
