package rules

import "github.com/npillmayer/stypro"

// observers is a list of callbacks. Callbacks may unsubscribe themselves or
// others while being notified.
type observers[T any] struct {
	next int
	fns  []observer[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

func (obs *observers[T]) add(fn func(T)) stypro.Unsubscribe {
	obs.next++
	id := obs.next
	obs.fns = append(obs.fns, observer[T]{id: id, fn: fn})
	return func() {
		for i, o := range obs.fns {
			if o.id == id {
				// copy to not disturb a notification in progress
				fns := make([]observer[T], 0, len(obs.fns)-1)
				fns = append(fns, obs.fns[:i]...)
				obs.fns = append(fns, obs.fns[i+1:]...)
				return
			}
		}
	}
}

func (obs *observers[T]) notify(arg T) {
	fns := obs.fns
	for _, o := range fns {
		if obs.contains(o.id) {
			o.fn(arg)
		}
	}
}

func (obs *observers[T]) contains(id int) bool {
	for _, o := range obs.fns {
		if o.id == id {
			return true
		}
	}
	return false
}

func (obs *observers[T]) len() int {
	return len(obs.fns)
}

func (obs *observers[T]) clear() {
	obs.fns = nil
}
