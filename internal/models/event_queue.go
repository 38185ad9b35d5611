package models

import (
	"container/heap"
	"sync"
	"time"
)

// Event is a step scheduled to fire at Time. Steps with equal Time keep
// their insertion order.
type Event struct {
	Time time.Time
	Step Step
	seq  int
}

// EventQueue is a priority queue of scheduled steps
type EventQueue struct {
	events []*Event
	next   int
	mutex  sync.Mutex
}

// eventHeap implements heap.Interface and holds Events
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].seq < h[j].seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]*Event, 0)}
}

// Schedule adds step to fire at at.
func (eq *EventQueue) Schedule(at time.Time, step Step) {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	heap.Push((*eventHeap)(&eq.events), &Event{Time: at, Step: step, seq: eq.next})
	eq.next++
}

// Dequeue removes and returns the earliest event from the queue
func (eq *EventQueue) Dequeue() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return heap.Pop((*eventHeap)(&eq.events)).(*Event)
}

// Peek returns the earliest event without removing it
func (eq *EventQueue) Peek() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return eq.events[0]
}

func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}

// Clear drops every pending event.
func (eq *EventQueue) Clear() {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	eq.events = eq.events[:0]
}
