package store

import "sync"

// ChangeKind identifies what part of the store changed.
type ChangeKind int

const (
	// ChangeKeys indicates key labels or colors changed.
	ChangeKeys ChangeKind = iota
	// ChangeSelection indicates the selection set changed.
	ChangeSelection
	// ChangeCable indicates the cable color changed.
	ChangeCable
	// ChangePalette indicates the custom color history changed.
	ChangePalette
	// ChangeReset indicates the keyboard was rebuilt from defaults.
	ChangeReset
)

// String returns the change kind name.
func (c ChangeKind) String() string {
	switch c {
	case ChangeKeys:
		return "keys"
	case ChangeSelection:
		return "selection"
	case ChangeCable:
		return "cable"
	case ChangePalette:
		return "palette"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes a committed mutation.
type Change struct {
	Kind ChangeKind
	// IDs lists the affected keys for ChangeKeys.
	IDs []string
}

// Observer is called after a mutation commits.
type Observer func(change Change)

// Subscription represents an active observer.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes the observer. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// notifier fans changes out to observers synchronously.
type notifier struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
}

func newNotifier() *notifier {
	return &notifier{observers: make(map[uint64]Observer)}
}

func (n *notifier) subscribe(obs Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = obs
	return &Subscription{id: id, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

func (n *notifier) notify(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}
