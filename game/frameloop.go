package game

import "time"

// FrameLoop is the host's tick source. Each Step calls every registered
// function once, in registration order.
type FrameLoop struct {
	entries  []*loopEntry
	stepping bool
}

type loopEntry struct {
	fn     func(dt time.Duration)
	active bool
}

// NewFrameLoop creates an empty frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Register adds fn to the loop. The returned function removes it and may be
// called from inside fn. Functions registered during a Step first run on the next Step.
func (l *FrameLoop) Register(fn func(dt time.Duration)) (unregister func()) {
	e := &loopEntry{fn: fn, active: true}
	l.entries = append(l.entries, e)
	return func() {
		if !e.active {
			return
		}
		e.active = false
		if !l.stepping {
			l.compact()
		}
	}
}

// Step advances every registered function by dt.
func (l *FrameLoop) Step(dt time.Duration) {
	l.stepping = true
	n := len(l.entries)
	for i := 0; i < n; i++ {
		if e := l.entries[i]; e.active {
			e.fn(dt)
		}
	}
	l.stepping = false
	l.compact()
}

// Len returns the number of registered functions.
func (l *FrameLoop) Len() int {
	n := 0
	for _, e := range l.entries {
		if e.active {
			n++
		}
	}
	return n
}

func (l *FrameLoop) compact() {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.active {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
}
