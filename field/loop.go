package field

import (
	"sort"
	"time"
)

// Loop is a cooperative single-threaded Clock over virtual time.
// Hosts drive it with Advance (timers) and Paint (one batch of frames).
type Loop struct {
	now    time.Duration
	seq    uint64
	timers []*timer

	next     FrameHandle
	frames   map[FrameHandle]func()
	painting map[FrameHandle]func()
}

type timer struct {
	due    time.Duration
	period time.Duration // 0 = one-shot
	seq    uint64
	fn     func()
}

// NewLoop creates an idle loop at virtual time zero.
func NewLoop() *Loop {
	return &Loop{frames: make(map[FrameHandle]func())}
}

// Now returns the elapsed virtual time.
func (l *Loop) Now() time.Duration { return l.now }

// AfterFunc runs fn once, d from now.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	l.schedule(d, 0, fn)
}

// Every runs fn every d, starting d from now.
func (l *Loop) Every(d time.Duration, fn func()) {
	if d <= 0 {
		panic("field: Every with non-positive period")
	}
	l.schedule(d, d, fn)
}

func (l *Loop) schedule(d, period time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	l.timers = append(l.timers, &timer{due: l.now + d, period: period, seq: l.seq, fn: fn})
}

// Timers returns the number of armed timers.
func (l *Loop) Timers() int { return len(l.timers) }

// Advance moves virtual time forward by d, running every timer that comes
// due in due-time order. Timers armed by callbacks run too if they fall
// inside the window. Returns the number of callbacks run.
func (l *Loop) Advance(d time.Duration) int {
	target := l.now + d
	ran := 0
	for {
		i := l.nextDue(target)
		if i < 0 {
			break
		}
		t := l.timers[i]
		l.now = t.due
		if t.period > 0 {
			t.due += t.period
			l.seq++
			t.seq = l.seq
		} else {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
		}
		t.fn()
		ran++
	}
	l.now = target
	return ran
}

func (l *Loop) nextDue(limit time.Duration) int {
	best := -1
	for i, t := range l.timers {
		if t.due > limit {
			continue
		}
		if best < 0 || t.due < l.timers[best].due ||
			(t.due == l.timers[best].due && t.seq < l.timers[best].seq) {
			best = i
		}
	}
	return best
}

// RequestFrame queues fn for the next Paint.
func (l *Loop) RequestFrame(fn func()) FrameHandle {
	l.next++
	l.frames[l.next] = fn
	return l.next
}

// CancelFrame drops a queued frame. Unknown or already-run handles are ignored.
func (l *Loop) CancelFrame(h FrameHandle) {
	delete(l.frames, h)
	if l.painting != nil {
		delete(l.painting, h)
	}
}

// PendingFrames returns the number of frames queued for the next Paint.
func (l *Loop) PendingFrames() int { return len(l.frames) }

// Paint runs the frames queued before the call, in request order.
// Frames requested during Paint wait for the next one.
func (l *Loop) Paint() int {
	if len(l.frames) == 0 {
		return 0
	}
	handles := make([]FrameHandle, 0, len(l.frames))
	for h := range l.frames {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	l.painting = l.frames
	l.frames = make(map[FrameHandle]func())
	ran := 0
	for _, h := range handles {
		fn, ok := l.painting[h]
		if !ok {
			continue
		}
		delete(l.painting, h)
		fn()
		ran++
	}
	l.painting = nil
	return ran
}
