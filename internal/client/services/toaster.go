package services

import (
	"sync"
	"time"
)

const DefaultToastTimeout = 5 * time.Second

// Toaster is the single notification slot. A new toast replaces the
// visible one and restarts the dismiss timer.
type Toaster struct {
	view    View
	timeout time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewToaster(view View, timeout time.Duration) *Toaster {
	if timeout <= 0 {
		timeout = DefaultToastTimeout
	}
	return &Toaster{view: view, timeout: timeout}
}

func (t *Toaster) Error(msg string) { t.show(Toast{Level: ToastError, Message: msg}) }

func (t *Toaster) Success(msg string) { t.show(Toast{Level: ToastSuccess, Message: msg}) }

func (t *Toaster) show(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.view.ShowToast(toast)
	t.timer = time.AfterFunc(t.timeout, func() { t.dismiss(gen) })
}

func (t *Toaster) dismiss(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.timer = nil
	t.view.HideToast()
}
