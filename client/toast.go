package client

import (
	"sync"
	"time"
)

// ToastTTL is how long a notification stays visible before it
// self-dismisses.
const ToastTTL = 3 * time.Second

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	Message   string
	Kind      ToastKind
	expiresAt time.Time
}

// Toasts is the transient notification channel: an in-memory queue of
// short-lived messages. Entries expire ToastTTL after being pushed;
// expired entries are dropped on the next read or tick.
type Toasts struct {
	mu      sync.Mutex
	entries []Toast
	now     func() time.Time
}

func NewToasts() *Toasts {
	return &Toasts{now: time.Now}
}

func (t *Toasts) Push(message string, kind ToastKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Toast{
		Message:   message,
		Kind:      kind,
		expiresAt: t.now().Add(ToastTTL),
	})
}

func (t *Toasts) Success(message string) { t.Push(message, ToastSuccess) }
func (t *Toasts) Error(message string)   { t.Push(message, ToastError) }
func (t *Toasts) Info(message string)    { t.Push(message, ToastInfo) }

// Active returns the messages still within their display window.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.entries[:0]
	for _, entry := range t.entries {
		if entry.expiresAt.After(now) {
			kept = append(kept, entry)
		}
	}
	t.entries = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}
