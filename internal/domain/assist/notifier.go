package assist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Kind classifies a notifier message.
type Kind string

const (
	KindInfo     Kind = "info"
	KindProgress Kind = "progress"
	KindDone     Kind = "done"
)

// Message is one transient status line with an optional sub-line.
type Message struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Detail string `json:"detail,omitempty"`
}

// Auto-dismiss delays.
const (
	NothingToDoTTL = 2 * time.Second
	DoneTTL        = 2200 * time.Millisecond
)

// Fixed assist messages.
var (
	MsgNothingToDo = Message{
		Kind:   KindInfo,
		Text:   "All required fields for this step look filled, nothing to auto-fill.",
		Detail: "You can still click 'AI fill this step' to add suggested extras.",
	}
	MsgGenerating = Message{Kind: KindProgress, Text: "Generating plausible defaults..."}
	MsgApplying   = Message{Kind: KindProgress, Text: "Applying the suggested values..."}
	MsgDone       = Message{
		Kind:   KindDone,
		Text:   "Done, missing fields have been filled. Please review and edit if needed.",
		Detail: "Changes are suggestions; you can modify any field.",
	}
)

// MsgFilling announces a fill run over the given missing fields.
func MsgFilling(missing []string) Message {
	shown := missing
	suffix := ""
	if len(shown) > 3 {
		shown = shown[:3]
		suffix = "..."
	}
	return Message{
		Kind:   KindProgress,
		Text:   fmt.Sprintf("Filling %d missing field(s): %s%s", len(missing), strings.Join(shown, ", "), suffix),
		Detail: "Simulating a model suggestion, editable after apply.",
	}
}

// Listener receives every change of the visible message. visible is false
// when the surface is cleared.
type Listener func(msg Message, visible bool)

// Notifier is a transient message surface. It holds no business state:
// clearing it never touches the project.
type Notifier struct {
	mu        sync.Mutex
	current   *Message
	gen       uint64
	timer     *time.Timer
	listeners map[int]Listener
	nextSub   int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: map[int]Listener{}}
}

// Show replaces the visible message. A positive ttl dismisses it after the
// delay unless another message is shown first.
func (n *Notifier) Show(msg Message, ttl time.Duration) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.stopTimer()
	m := msg
	n.current = &m
	if ttl > 0 {
		n.timer = time.AfterFunc(ttl, func() { n.dismiss(gen) })
	}
	listeners := n.snapshot()
	n.mu.Unlock()

	for _, l := range listeners {
		l(msg, true)
	}
}

// Current returns the visible message, if any.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Message{}, false
	}
	return *n.current, true
}

// Close clears the visible message.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.gen++
	n.stopTimer()
	had := n.current != nil
	n.current = nil
	listeners := n.snapshot()
	n.mu.Unlock()

	if had {
		for _, l := range listeners {
			l(Message{}, false)
		}
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (n *Notifier) Subscribe(l Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextSub
	n.nextSub++
	n.listeners[id] = l
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Stage shows a progress message and then waits for delay or ctx.
func (n *Notifier) Stage(ctx context.Context, msg Message, delay time.Duration) error {
	n.Show(msg, 0)
	if delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	listeners := n.snapshot()
	n.mu.Unlock()

	for _, l := range listeners {
		l(Message{}, false)
	}
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) snapshot() []Listener {
	out := make([]Listener, 0, len(n.listeners))
	for _, l := range n.listeners {
		out = append(out, l)
	}
	return out
}
