// Package storage keeps augmented batch results in memory until they are downloaded or expire.
package storage

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/salary-predictor/backend/internal/metrics"
	"github.com/salary-predictor/backend/internal/models"
)

// ErrNotFound is returned for unknown or expired result ids.
var ErrNotFound = errors.New("result not found or expired")

// Store defines the interface for batch result storage.
type Store interface {
	Save(sourceName string, rowCount int, data []byte) (*models.ResultInfo, error)
	Get(id string) (*models.ResultInfo, []byte, error)
	List(limit int) ([]*models.ResultInfo, error)
	Delete(id string) error
	Len() int
}

type entry struct {
	info *models.ResultInfo
	data []byte
}

// MemoryStore implements Store with a size bounded, expiring LRU.
// Nothing is written to disk.
type MemoryStore struct {
	ttl   time.Duration
	cache *expirable.LRU[string, *entry]
}

// NewMemoryStore creates a store holding at most size results for ttl each.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1
	}
	onEvict := func(_ string, _ *entry) {
		metrics.StoredResults.Dec()
	}
	return &MemoryStore{
		ttl:   ttl,
		cache: expirable.NewLRU[string, *entry](size, onEvict, ttl),
	}
}

// Save stores a rendered CSV and returns its metadata.
func (s *MemoryStore) Save(sourceName string, rowCount int, data []byte) (*models.ResultInfo, error) {
	now := time.Now()
	info := &models.ResultInfo{
		ID:         uuid.New().String(),
		FileName:   models.PredictionFileName,
		SourceName: sourceName,
		RowCount:   rowCount,
		Size:       int64(len(data)),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.cache.Add(info.ID, &entry{info: info, data: data})
	metrics.StoredResults.Inc()
	return info, nil
}

// Get returns the metadata and contents of a stored result.
func (s *MemoryStore) Get(id string) (*models.ResultInfo, []byte, error) {
	e, ok := s.cache.Get(id)
	if !ok {
		return nil, nil, ErrNotFound
	}
	info := *e.info
	return &info, e.data, nil
}

// List returns the most recent results.
func (s *MemoryStore) List(limit int) ([]*models.ResultInfo, error) {
	var list []*models.ResultInfo
	for _, e := range s.cache.Values() {
		info := *e.info
		list = append(list, &info)
	}

	// Sort by CreatedAt desc
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Delete removes a result before it expires.
func (s *MemoryStore) Delete(id string) error {
	if !s.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of live results.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
