package gateway

import (
	"github.com/google/uuid"
)

// MessageType identifies a control message sent to the worker.
type MessageType string

const (
	// SkipWaiting tells a freshly-installed worker to activate without
	// waiting for in-flight work to finish.
	SkipWaiting MessageType = "SKIP_WAITING"
	// GetVersion asks the worker for its build version.
	GetVersion MessageType = "GET_VERSION"
	// ClearCache tells the worker to delete every named cache.
	ClearCache MessageType = "CLEAR_CACHE"
)

// Reply is the worker's answer to a control message, correlated by the id of
// the message that produced it.
type Reply struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type message struct {
	id      string
	kind    MessageType
	replyCh chan Reply
}

// Run processes control messages until Stop is called. It is meant to run in
// its own goroutine.
func (w *Worker) Run() {
	for {
		select {
		case msg := <-w.messages:
			msg.replyCh <- w.handle(msg)
		case <-w.stopCh:
			return
		}
	}
}

// Stop ends the control loop.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// Send delivers a control message and waits for the correlated reply.
func (w *Worker) Send(kind MessageType) Reply {
	msg := message{
		id:      uuid.NewString(),
		kind:    kind,
		replyCh: make(chan Reply, 1),
	}

	select {
	case w.messages <- msg:
		return <-msg.replyCh
	case <-w.stopCh:
		return Reply{ID: msg.id, Error: "worker stopped"}
	}
}

func (w *Worker) handle(msg message) Reply {
	reply := Reply{ID: msg.id}

	switch msg.kind {
	case SkipWaiting:
		err := w.Activate()
		if err != nil {
			reply.Error = err.Error()
			return reply
		}

		reply.Success = true
	case GetVersion:
		reply.Version = w.version
		reply.Success = true
	case ClearCache:
		names, err := w.db.CacheNames()
		if err != nil {
			reply.Error = err.Error()
			return reply
		}

		for _, name := range names {
			err = w.db.DeleteCache(name)
			if err != nil {
				reply.Error = err.Error()
				return reply
			}
		}

		reply.Success = true
	default:
		reply.Error = "unknown message type"
	}

	return reply
}
