// Package pqueue implements an indexed binary-heap priority queue.
//
// Unlike a plain heap it tracks the position of every item, so an item whose
// priority changed can be moved in O(log n) instead of being pushed again.
package pqueue

import "container/heap"

// Queue orders items of type T by a caller-supplied less function. Items
// must be distinct keys; enqueueing an item already present updates it.
type Queue[T comparable] struct {
	h *itemHeap[T]
}

// New returns an empty queue. less(a, b) reports whether a must be dequeued before b.
func New[T comparable](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{h: &itemHeap[T]{less: less, index: make(map[T]int)}}
}

// Enqueue adds item, or restores its position if it is already queued.
func (q *Queue[T]) Enqueue(item T) {
	if i, ok := q.h.index[item]; ok {
		heap.Fix(q.h, i)
		return
	}
	heap.Push(q.h, item)
}

// Dequeue removes and returns the highest-priority item.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(q.h).(T), true
}

// Peek returns the highest-priority item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.h.items[0], true
}

// Update restores heap order after item's priority changed. It returns
// false when item is not queued.
func (q *Queue[T]) Update(item T) bool {
	i, ok := q.h.index[item]
	if !ok {
		return false
	}
	heap.Fix(q.h, i)
	return true
}

// Remove drops item from the queue.
func (q *Queue[T]) Remove(item T) bool {
	i, ok := q.h.index[item]
	if !ok {
		return false
	}
	heap.Remove(q.h, i)
	return true
}

func (q *Queue[T]) Contains(item T) bool {
	_, ok := q.h.index[item]
	return ok
}

func (q *Queue[T]) Len() int {
	return q.h.Len()
}

// Clear empties the queue and keeps the allocated capacity.
func (q *Queue[T]) Clear() {
	q.h.items = q.h.items[:0]
	clear(q.h.index)
}

type itemHeap[T comparable] struct {
	items []T
	index map[T]int
	less  func(a, b T) bool
}

func (h *itemHeap[T]) Len() int { return len(h.items) }

func (h *itemHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }

func (h *itemHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i]] = i
	h.index[h.items[j]] = j
}

func (h *itemHeap[T]) Push(x any) {
	item := x.(T)
	h.index[item] = len(h.items)
	h.items = append(h.items, item)
}

func (h *itemHeap[T]) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	var zero T
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	delete(h.index, item)
	return item
}
