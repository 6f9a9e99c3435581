package progress

import (
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vancomm/stagehunt/internal/database"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.ConnectAndMigrate(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("failed to connect sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db, "kv")
	if err != nil {
		t.Fatalf("failed to create new store: %v", err)
	}
	return s
}

func TestStoreBadName(t *testing.T) {
	for _, name := range []string{"", "kv; DROP TABLE kv", "kv1"} {
		if _, err := NewStore(nil, name); err != ErrBadName {
			t.Fatalf("%q: expected bad name error, received %v", name, err)
		}
	}
}

func TestStoreReadEmpty(t *testing.T) {
	s := setupTestStore(t)

	var nothing struct{}
	if err := s.Get("some key", &nothing); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestStoreWriteAndReadStruct(t *testing.T) {
	s := setupTestStore(t)

	val := Progress{CompletedStages: []int{1, 2, 3}}
	if err := s.Set("key", val); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	var rtVal Progress
	if err := s.Get("key", &rtVal); err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	if !reflect.DeepEqual(val, rtVal) {
		t.Fatalf("expected: %v, actual: %v", val, rtVal)
	}

	if err := s.Get("key", nil); err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := setupTestStore(t)

	r := rand.New(rand.NewPCG(1, 2))
	val := r.Int32()
	if err := s.Set("key", val); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
	val = r.Int32()
	if err := s.Set("key", val); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	var rtVal int32
	if err := s.Get("key", &rtVal); err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	if val != rtVal {
		t.Fatalf("failed to update value (expected %v, actual %v)", val, rtVal)
	}
}

func TestStoreDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Delete("missing"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("key", 1337); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
	if err := s.Delete("key"); err != nil {
		t.Fatalf("failed to delete value: %v", err)
	}
	var rtVal int
	if err := s.Get("key", &rtVal); err != ErrNotFound {
		t.Fatalf("expected to get not found err, instead got %v (%v)", err, rtVal)
	}
}
