package services

import (
	"container/heap"
	"time"

	"broker-demo-service/internal/domain"
)

// A step waiting to fire. The queue replaces the browser-era nested
// timer chains: every pending step is visible here and pause can drain
// them all in one place.
type scheduledStep struct {
	due         time.Time
	seq         int // insertion order, breaks due-time ties deterministically
	shipmentRef string
	category    domain.Category
	index       int
}

type stepQueue []scheduledStep

func (q stepQueue) Len() int { return len(q) }

func (q stepQueue) Less(i, j int) bool {
	if !q[i].due.Equal(q[j].due) {
		return q[i].due.Before(q[j].due)
	}
	return q[i].seq < q[j].seq
}

func (q stepQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stepQueue) Push(x any) { *q = append(*q, x.(scheduledStep)) }

func (q *stepQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*stepQueue)(nil)
