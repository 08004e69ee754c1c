package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"moviehub/browse"
)

// Forwarder relays controller snapshots to a running program in order
// without blocking the caller. tea.Program.Send blocks until the event loop
// reads the message, and the controller notifies from inside Update.
type Forwarder struct {
	send func(tea.Msg)

	mu     sync.Mutex
	queue  []browse.Snapshot
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func NewForwarder(send func(tea.Msg)) *Forwarder {
	f := &Forwarder{
		send: send,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go f.loop()
	return f
}

// Notify is suitable for browse.WithNotify.
func (f *Forwarder) Notify(s browse.Snapshot) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.queue = append(f.queue, s)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Close stops the relay. Snapshots still queued are dropped.
func (f *Forwarder) Close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
	f.mu.Unlock()
}

func (f *Forwarder) loop() {
	for {
		select {
		case <-f.done:
			return
		case <-f.wake:
		}

		f.mu.Lock()
		batch := f.queue
		f.queue = nil
		f.mu.Unlock()

		for _, s := range batch {
			select {
			case <-f.done:
				return
			default:
			}
			f.send(SnapshotMsg(s))
		}
	}
}
