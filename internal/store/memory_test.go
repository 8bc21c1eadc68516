package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
)

func newSession(t *testing.T, id, word string) *Session {
	t.Helper()
	eng, err := game.New(word)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return NewSession(id, "classic", dictionary.Entry{Word: word, Definition: "def"}, eng)
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t, "abc", "crane")

	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}
	if err := st.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err %v, want ErrNotFound", err)
	}
	if err := st.Delete(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err %v, want ErrNotFound", err)
	}
	if err := st.Save(ctx, &Session{}); err == nil {
		t.Error("Save without id should fail")
	}
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	old := newSession(t, "old", "crane")
	old.lastSeen = time.Now().Add(-2 * time.Hour)
	fresh := newSession(t, "fresh", "speed")
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)

	if n := st.Sweep(ctx, time.Now().Add(-time.Hour)); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Error("old session survived the sweep")
	}
	if _, err := st.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestSession_DoSerializes(t *testing.T) {
	s := newSession(t, "abc", "crane")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(e *game.Engine, _ dictionary.Entry) {
				e.TypeLetter('A')
				e.Backspace()
			})
		}()
	}
	wg.Wait()
	s.Do(func(e *game.Engine, _ dictionary.Entry) {
		if e.CurrentGuess() != (game.Letters{}) {
			t.Errorf("CurrentGuess %q, want empty", e.CurrentGuess().String())
		}
	})
}

func TestJanitor_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Janitor(ctx, NewMemoryStore(), time.Minute, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Janitor did not stop")
	}
}
