package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/generator"
)

func entryResult(rows int) *generator.Result {
	f := dataset.New(rows)
	return &generator.Result{Full: f, Items: f}
}

func TestPutGetClearLifecycle(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("a"); ok {
		t.Error("empty store should not return entries")
	}

	model := &config.ModelConfig{Project: "first"}
	s.Put("a", model, entryResult(10))

	e, ok := s.Get("a")
	if !ok {
		t.Fatal("entry should be retrievable after Put")
	}
	if e.Model.Project != "first" || e.Result.Full.NumRows() != 10 {
		t.Error("stored entry lost its contents")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	// A new generation replaces the previous one.
	s.Put("a", &config.ModelConfig{Project: "second"}, entryResult(20))
	e, _ = s.Get("a")
	if e.Model.Project != "second" || e.Result.Full.NumRows() != 20 {
		t.Error("Put should overwrite the session's entry")
	}

	s.Clear("a")
	if _, ok := s.Get("a"); ok {
		t.Error("Clear should drop the entry")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Put("a", &config.ModelConfig{Project: "alpha"}, entryResult(1))
	s.Put("b", &config.ModelConfig{Project: "beta"}, entryResult(2))

	ea, _ := s.Get("a")
	eb, _ := s.Get("b")
	if ea.Model.Project != "alpha" || eb.Model.Project != "beta" {
		t.Error("sessions must not see each other's entries")
	}

	s.Clear("a")
	if _, ok := s.Get("b"); !ok {
		t.Error("clearing one session must not affect another")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i%4)
			for j := 0; j < 100; j++ {
				s.Put(id, &config.ModelConfig{Project: id}, entryResult(1))
				if e, ok := s.Get(id); ok && e.Model.Project != id {
					t.Errorf("session %s read entry for %s", id, e.Model.Project)
					return
				}
				s.Clear(id)
			}
		}(i)
	}
	wg.Wait()
}
