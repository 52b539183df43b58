package tunnel

import "container/heap"

// waitQueue tracks the vehicles waiting at a priority gate, ordered by
// priority (highest first). Entries are identified by pointer because a
// waiting vehicle's priority may be mutated between admission attempts.
type waitQueue struct {
	vehicles vehicleHeap
}

// Add registers a waiter. Adding a vehicle that is already waiting is a
// no-op.
func (q *waitQueue) Add(v *Vehicle) {
	if q.contains(v) {
		return
	}
	heap.Push(&q.vehicles, v)
}

// Remove deregisters a waiter. Removing an unknown vehicle is a no-op.
func (q *waitQueue) Remove(v *Vehicle) {
	for i, w := range q.vehicles {
		if w == v {
			heap.Remove(&q.vehicles, i)
			return
		}
	}
}

// MaxPriority returns the highest priority among current waiters, or -1
// when no vehicle is waiting.
func (q *waitQueue) MaxPriority() int {
	if q.vehicles.Len() == 0 {
		return -1
	}
	// Priorities can mutate while queued, so the root is only a hint;
	// re-establish order before trusting it.
	heap.Init(&q.vehicles)
	return q.vehicles[0].Priority()
}

// Len returns the number of waiting vehicles.
func (q *waitQueue) Len() int { return q.vehicles.Len() }

func (q *waitQueue) contains(v *Vehicle) bool {
	for _, w := range q.vehicles {
		if w == v {
			return true
		}
	}
	return false
}

// vehicleHeap implements heap.Interface over *Vehicle, highest priority
// first.
type vehicleHeap []*Vehicle

func (h vehicleHeap) Len() int           { return len(h) }
func (h vehicleHeap) Less(i, j int) bool { return h[i].Priority() > h[j].Priority() }
func (h vehicleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *vehicleHeap) Push(x interface{}) {
	*h = append(*h, x.(*Vehicle))
}

func (h *vehicleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
