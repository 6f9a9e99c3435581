package hunt

import "sync"

type MessageKind string

const (
	KindRules   MessageKind = "rules"
	KindSuccess MessageKind = "success"
	KindError   MessageKind = "error"
)

type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Inbox is the notifier handed to every engine a play runs. Messages queue
// until a client drains them; a message counts as closed as soon as it is
// queued.
type Inbox struct {
	mu      sync.Mutex
	pending []Message
	updates chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewInbox() *Inbox {
	return &Inbox{
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (b *Inbox) push(kind MessageKind, text string) {
	b.mu.Lock()
	b.pending = append(b.pending, Message{Kind: kind, Text: text})
	b.mu.Unlock()

	select {
	case b.updates <- struct{}{}:
	default:
	}
}

func (b *Inbox) ShowRules(text string) {
	b.push(KindRules, text)
}

func (b *Inbox) ShowSuccess(text string, onClose func()) {
	b.push(KindSuccess, text)
	if onClose != nil {
		onClose()
	}
}

func (b *Inbox) ShowError(text string, onClose func()) {
	b.push(KindError, text)
	if onClose != nil {
		onClose()
	}
}

// Drain returns and forgets every queued message.
func (b *Inbox) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Updates is signalled, coalesced, whenever a message is queued.
func (b *Inbox) Updates() <-chan struct{} {
	return b.updates
}

// Done is closed once the play owning the inbox is discarded.
func (b *Inbox) Done() <-chan struct{} {
	return b.done
}

func (b *Inbox) close() {
	b.once.Do(func() { close(b.done) })
}
