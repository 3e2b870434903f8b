// SPDX-License-Identifier: GPL-2.0-or-later

// Package notify provides typed synchronous fan-out channels.
package notify

// Subscription identifies a listener registered on a Notifier.
type Subscription struct {
	id     uint64
	remove func(uint64)
}

// Unsubscribe removes the listener. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.remove == nil {
		return
	}
	s.remove(s.id)
	s.remove = nil
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Notifier is a multi-cast event with one argument. Listeners run in
// subscription order on the calling goroutine.
type Notifier[T any] struct {
	nextID    uint64
	listeners []listener[T]
}

func (n *Notifier[T]) Subscribe(fn func(T)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listener[T]{id: id, fn: fn})
	return &Subscription{id: id, remove: n.remove}
}

func (n *Notifier[T]) remove(id uint64) {
	for i, l := range n.listeners {
		if l.id == id {
			// copy so a Notify in progress keeps its snapshot intact
			ls := make([]listener[T], 0, len(n.listeners)-1)
			ls = append(ls, n.listeners[:i]...)
			n.listeners = append(ls, n.listeners[i+1:]...)
			return
		}
	}
}

// Notify calls every listener registered when the call started.
func (n *Notifier[T]) Notify(arg T) {
	for _, l := range n.listeners {
		l.fn(arg)
	}
}

func (n *Notifier[T]) ListenerCount() int {
	return len(n.listeners)
}

// Subscriptions collects handles so an owner can drop them all on teardown.
type Subscriptions []*Subscription

func (s *Subscriptions) Add(sub *Subscription) {
	*s = append(*s, sub)
}

// UnsubscribeAll removes the listeners in reverse registration order.
func (s *Subscriptions) UnsubscribeAll() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i].Unsubscribe()
	}
	*s = nil
}
