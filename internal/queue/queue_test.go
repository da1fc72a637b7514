package queue

import (
	"sync"
	"testing"
)

type notice struct {
	Kind   string
	BodyID string
}

func TestQueue_PushPop(t *testing.T) {
	q := New[notice](0)

	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}

	q.Push(notice{Kind: "description_ready", BodyID: "earth"}, notice{Kind: "description_ready", BodyID: "mars"})
	if q.Len() != 2 {
		t.Fatalf("expected length 2, got %d", q.Len())
	}

	first, ok := q.Pop()
	if !ok || first.BodyID != "earth" {
		t.Errorf("expected earth first, got %+v", first)
	}
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}
}

func TestQueue_BoundDropsOldest(t *testing.T) {
	q := New[int](3)
	q.Push(1, 2, 3)
	q.Push(4, 5)

	got := q.Drain()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if q.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", q.Dropped())
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
}

func TestQueue_ReadySignal(t *testing.T) {
	q := New[int](0)

	select {
	case <-q.Ready():
		t.Fatal("unexpected signal before push")
	default:
	}

	q.Push()
	select {
	case <-q.Ready():
		t.Fatal("empty push must not signal")
	default:
	}

	q.Push(1)
	q.Push(2)
	select {
	case <-q.Ready():
	default:
		t.Fatal("expected a signal after push")
	}
	if n := len(q.Drain()); n != 2 {
		t.Errorf("expected 2 items, got %d", n)
	}
}

func TestQueue_Concurrent(t *testing.T) {
	q := New[int](0)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(base*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("expected 1000 items, got %d", q.Len())
	}
}
