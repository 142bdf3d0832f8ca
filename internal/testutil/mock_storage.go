// mock_storage.go - Mock result store implementation for testing
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/storage"
)

// MockStorage implements storage.Store for testing
type MockStorage struct {
	results map[string]*models.ResultInfo
	data    map[string][]byte
	order   []string
	mu      sync.RWMutex

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
}

var _ storage.Store = (*MockStorage)(nil)

// NewMockStorage creates a new, empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		results: make(map[string]*models.ResultInfo),
		data:    make(map[string][]byte),
	}
}

func (m *MockStorage) Save(sourceName string, rowCount int, data []byte) (*models.ResultInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	id := fmt.Sprintf("result-%d", len(m.order)+1)
	now := time.Now()
	info := &models.ResultInfo{
		ID:         id,
		FileName:   models.PredictionFileName,
		SourceName: sourceName,
		RowCount:   rowCount,
		Size:       int64(len(data)),
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	}
	m.results[id] = info
	m.data[id] = append([]byte(nil), data...)
	m.order = append(m.order, id)
	return info, nil
}

func (m *MockStorage) Get(id string) (*models.ResultInfo, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.results[id]
	if !ok {
		return nil, nil, storage.ErrNotFound
	}
	return info, m.data[id], nil
}

func (m *MockStorage) List(limit int) ([]*models.ResultInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*models.ResultInfo
	for i := len(m.order) - 1; i >= 0; i-- {
		if info, ok := m.results[m.order[i]]; ok {
			list = append(list, info)
		}
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.results[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.results, id)
	delete(m.data, id)
	return nil
}

func (m *MockStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// AddResult stores data under a fixed id, for download tests.
func (m *MockStorage) AddResult(id string, data []byte) *models.ResultInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := &models.ResultInfo{
		ID:        id,
		FileName:  models.PredictionFileName,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	m.results[id] = info
	m.data[id] = data
	m.order = append(m.order, id)
	return info
}

// ErrMock is a generic failure for injecting errors.
var ErrMock = errors.New("mock failure")
