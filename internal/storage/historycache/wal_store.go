// Package historycache keeps fetched daily price history in a WAL so a
// restarted watcher does not have to hit the history source again.
package historycache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

const (
	DefaultDir   = "./wal/history"
	segmentLimit = 100
	maxSegments  = 10

	historyKeyPrefix = "history_"
)

// Entry one cached fetch.
type Entry struct {
	Key       string              `json:"key"`
	FetchedAt time.Time           `json:"fetched_at"`
	Points    []domain.PricePoint `json:"points"`
}

// WALStore persists history fetches in a WAL, newest entry wins.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed history cache under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "history_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init history WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Key identifies the series req asks for from source.
func Key(source string, req domain.HistoryRequest) string {
	id := req.Pair.String()
	if req.AssetID != "" {
		id = req.AssetID + "/" + req.Currency
	}
	return fmt.Sprintf("%s%s_%s_%d", historyKeyPrefix, source, strings.ToLower(id), req.Days)
}

// Save appends a fetch under key.
func (s *WALStore) Save(key string, points []domain.PricePoint, fetchedAt time.Time) error {
	if s == nil || s.wal == nil {
		return errors.New("history cache is not initialized")
	}

	payload, err := json.Marshal(Entry{Key: key, FetchedAt: fetchedAt, Points: points})
	if err != nil {
		return errors.Wrap(err, "marshal history entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, key, payload)
}

// Latest returns the newest entry stored under key.
func (s *WALStore) Latest(key string) (Entry, bool, error) {
	if s == nil || s.wal == nil {
		return Entry{}, false, errors.New("history cache is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// rotated segments make older indices unreadable, so walk down until a hit
	for idx := s.wal.CurrentIndex(); idx > 0; idx-- {
		k, payload, ok := s.wal.Get(idx)
		if !ok || k != key {
			continue
		}
		var e Entry
		if err := json.Unmarshal(payload, &e); err != nil {
			return Entry{}, false, errors.Wrap(err, "decode history entry")
		}
		return e, true, nil
	}
	return Entry{}, false, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("history cache is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
