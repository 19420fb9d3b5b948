package mlme

import "sync"

// Recorder is a Sink that keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

var _ Sink = (*Recorder)(nil)

// Send records msg.
func (r *Recorder) Send(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Drain returns the recorded messages and forgets them.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages
	r.messages = nil
	return msgs
}

// Len returns the number of recorded messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Last returns the most recent message, or nil.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil
	}
	return r.messages[len(r.messages)-1]
}

// Of returns the recorded messages of type T in order.
func Of[T Message](r *Recorder) []T {
	var out []T
	for _, msg := range r.Messages() {
		if m, ok := msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}
