// Package toast keeps the short-lived notifications shown over the page.
package toast

import "time"

type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Toast struct {
	Message string
	Kind    Kind
	Shown   time.Time
	Expires time.Time
}

// Remaining returns the fraction of the lifetime still left at now, in [0,1].
func (t Toast) Remaining(now time.Time) float64 {
	total := t.Expires.Sub(t.Shown)
	if total <= 0 {
		return 0
	}
	left := float64(t.Expires.Sub(now)) / float64(total)
	if left < 0 {
		return 0
	}
	if left > 1 {
		return 1
	}
	return left
}

// Queue holds at most limit toasts; pushing past the limit drops the oldest.
// With a limit of 1 every push replaces the toast on screen.
type Queue struct {
	lifetime time.Duration
	limit    int
	items    []Toast
}

func NewQueue(lifetime time.Duration, limit int) *Queue {
	if limit < 1 {
		limit = 1
	}
	return &Queue{lifetime: lifetime, limit: limit}
}

func (q *Queue) Push(now time.Time, kind Kind, msg string) {
	q.items = append(q.items, Toast{
		Message: msg,
		Kind:    kind,
		Shown:   now,
		Expires: now.Add(q.lifetime),
	})
	if len(q.items) > q.limit {
		q.items = q.items[len(q.items)-q.limit:]
	}
}

// Active drops expired toasts and returns the rest, oldest first.
func (q *Queue) Active(now time.Time) []Toast {
	kept := q.items[:0]
	for _, t := range q.items {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	q.items = kept
	return append([]Toast(nil), kept...)
}

// Dismiss removes the i-th toast as returned by the last Active call.
func (q *Queue) Dismiss(i int) {
	if i < 0 || i >= len(q.items) {
		return
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
}
