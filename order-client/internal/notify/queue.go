package notify

import (
	"log"
	"sync"
	"time"

	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/service"
)

const DefaultCapacity = 100

var _ service.Notifier = (*Queue)(nil)

// Queue keeps the most recent notifications, newest first, until the
// presentation layer drains them.
type Queue struct {
	mu       sync.Mutex
	items    []domain.Notification
	capacity int
	now      func() time.Time
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity, now: time.Now}
}

func (q *Queue) Notify(n domain.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.now()
	}
	log.Printf("[notify] %s: %s %s", n.Level, n.Title, n.Detail)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append([]domain.Notification{n}, q.items...)
	if len(q.items) > q.capacity {
		q.items = q.items[:q.capacity]
	}
}

// Drain returns pending notifications, newest first, and empties the queue.
func (q *Queue) Drain() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	if items == nil {
		return []domain.Notification{}
	}
	return items
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
