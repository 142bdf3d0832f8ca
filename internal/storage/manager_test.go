// manager_test.go - Tests for the batch result store
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/salary-predictor/backend/internal/metrics"
	"github.com/salary-predictor/backend/internal/models"
)

func createTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(4, time.Minute)
}

func TestMemoryStore_Save(t *testing.T) {
	t.Run("saves result bytes", func(t *testing.T) {
		store := createTestStore(t)

		data := []byte("age,Predicted Salary Class\n30,<=50K\n")
		info, err := store.Save("employees.csv", 1, data)
		if err != nil {
			t.Fatalf("Failed to save result: %v", err)
		}

		if info.ID == "" {
			t.Error("Expected ID to be set")
		}
		if info.FileName != models.PredictionFileName {
			t.Errorf("Expected file name %q, got %q", models.PredictionFileName, info.FileName)
		}
		if info.SourceName != "employees.csv" {
			t.Errorf("Expected source name 'employees.csv', got %v", info.SourceName)
		}
		if info.Size != int64(len(data)) {
			t.Errorf("Expected size %d, got %d", len(data), info.Size)
		}
		if info.RowCount != 1 {
			t.Errorf("Expected row count 1, got %d", info.RowCount)
		}
		if !info.ExpiresAt.After(info.CreatedAt) {
			t.Error("Expected ExpiresAt to be after CreatedAt")
		}
	})

	t.Run("generates unique ids", func(t *testing.T) {
		store := createTestStore(t)

		a, _ := store.Save("a.csv", 1, []byte("a"))
		b, _ := store.Save("b.csv", 1, []byte("b"))
		if a.ID == b.ID {
			t.Error("Expected unique IDs")
		}
		if store.Len() != 2 {
			t.Errorf("Expected 2 stored results, got %d", store.Len())
		}
	})
}

func TestMemoryStore_Get(t *testing.T) {
	t.Run("returns stored contents", func(t *testing.T) {
		store := createTestStore(t)
		saved, _ := store.Save("a.csv", 1, []byte("payload"))

		info, data, err := store.Get(saved.ID)
		if err != nil {
			t.Fatalf("Failed to get result: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("Expected 'payload', got %q", data)
		}
		if info.ID != saved.ID {
			t.Errorf("Expected ID %s, got %s", saved.ID, info.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		store := createTestStore(t)
		if _, _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("expired result", func(t *testing.T) {
		store := NewMemoryStore(4, 20*time.Millisecond)
		saved, _ := store.Save("a.csv", 1, []byte("payload"))

		time.Sleep(80 * time.Millisecond)

		if _, _, err := store.Get(saved.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after expiry, got %v", err)
		}
	})
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	store := NewMemoryStore(2, time.Minute)

	first, _ := store.Save("1.csv", 1, []byte("1"))
	store.Save("2.csv", 1, []byte("2"))
	store.Save("3.csv", 1, []byte("3"))

	if store.Len() != 2 {
		t.Errorf("Expected 2 stored results, got %d", store.Len())
	}
	if _, _, err := store.Get(first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected oldest result to be evicted, got %v", err)
	}
}

func TestMemoryStore_List(t *testing.T) {
	store := createTestStore(t)
	store.Save("1.csv", 1, []byte("1"))
	time.Sleep(2 * time.Millisecond)
	latest, _ := store.Save("2.csv", 1, []byte("2"))

	list, err := store.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(list))
	}
	if list[0].ID != latest.ID {
		t.Errorf("Expected most recent result first, got %s", list[0].SourceName)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := createTestStore(t)
	saved, _ := store.Save("a.csv", 1, []byte("payload"))

	if err := store.Delete(saved.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
	if err := store.Delete(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_StoredResultsGauge(t *testing.T) {
	store := NewMemoryStore(2, time.Minute)
	before := testutil.ToFloat64(metrics.StoredResults)

	first, err := store.Save("a.csv", 1, []byte("a"))
	if err != nil {
		t.Fatalf("Failed to save result: %v", err)
	}
	for _, name := range []string{"b.csv", "c.csv"} {
		if _, err := store.Save(name, 1, []byte(name)); err != nil {
			t.Fatalf("Failed to save result: %v", err)
		}
	}

	// The third save evicted the first.
	if got := testutil.ToFloat64(metrics.StoredResults) - before; got != 2 {
		t.Errorf("Expected gauge to grow by 2, got %v", got)
	}
	if _, _, err := store.Get(first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected evicted result to be gone, got %v", err)
	}
}
