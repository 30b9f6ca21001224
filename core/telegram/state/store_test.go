package state

import (
	"sync"
	"testing"
)

type session struct {
	Step int
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore[session]()

	if _, ok := s.Get(1); ok {
		t.Fatal("empty store should not return a session")
	}

	s.Put(1, &session{Step: 3})
	got, ok := s.Get(1)
	if !ok || got.Step != 3 {
		t.Fatalf("got %+v ok=%v", got, ok)
	}

	// Mutations through the pointer are visible on the next Get.
	got.Step = 5
	again, _ := s.Get(1)
	if again.Step != 5 {
		t.Fatalf("step = %d", again.Step)
	}

	if !s.Has(1) || s.Has(2) {
		t.Fatal("Has mismatch")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("session should be gone after delete")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore[session]()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(id, &session{Step: int(id)})
			if got, ok := s.Get(id); !ok || got.Step != int(id) {
				t.Errorf("chat %d: got %+v ok=%v", id, got, ok)
			}
			s.Delete(id)
		}(int64(i))
	}
	wg.Wait()
	if s.Len() != 0 {
		t.Fatalf("len = %d after cleanup", s.Len())
	}
}
