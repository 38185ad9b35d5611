package models

import (
	"testing"
	"time"
)

func TestEventQueue_OrdersByTimeThenInsertion(t *testing.T) {
	q := NewEventQueue()
	base := time.Now()
	q.Schedule(base.Add(2*time.Second), Step{Kind: "late"})
	q.Schedule(base, Step{Kind: "first"})
	q.Schedule(base, Step{Kind: "second"})
	q.Schedule(base.Add(time.Second), Step{Kind: "middle"})

	if q.Len() != 4 || q.Peek().Step.Kind != "first" {
		t.Fatalf("len %d, peek %v", q.Len(), q.Peek())
	}

	var got []string
	for e := q.Dequeue(); e != nil; e = q.Dequeue() {
		got = append(got, e.Step.Kind)
	}
	want := []string{"first", "second", "middle", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if q.Peek() != nil {
		t.Fatal("empty queue should peek nil")
	}
}

func TestEventQueue_Clear(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(time.Now(), Step{})
	q.Clear()
	if q.Len() != 0 || q.Dequeue() != nil {
		t.Fatal("queue not cleared")
	}
}
