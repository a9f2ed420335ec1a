package frontend

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// manualScheduler fires timers only when the test advances its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, seq: len(s.timers), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock and runs every due timer in order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending counts armed timers.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// recordingUI logs every outward call as a string.
type recordingUI struct {
	mu    sync.Mutex
	calls []string
}

func (u *recordingUI) add(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, fmt.Sprintf(format, args...))
}

func (u *recordingUI) RenderFieldError(field, msg string) { u.add("error %s: %s", field, msg) }
func (u *recordingUI) RenderFieldOK(field string)         { u.add("ok %s", field) }
func (u *recordingUI) RenderSuccess(area, msg string)     { u.add("success %s: %s", area, msg) }
func (u *recordingUI) NavigateTo(v view.View)             { u.add("navigate %s", v) }
func (u *recordingUI) ShowPopup(title, msg string)        { u.add("popup %s %s", title, msg) }
func (u *recordingUI) HidePopup()                         { u.add("hide popup") }

func (u *recordingUI) SetLoading(form view.Form, loading bool, label string) {
	u.add("loading %s %t %s", form, loading, label)
}

func (u *recordingUI) Prefill(field, value string) { u.add("prefill %s %s", field, value) }

func (u *recordingUI) RenderProfile(p view.Profile) {
	u.add("profile %s %s %s", p.Username, p.Email, p.MemberSince.Format(time.DateOnly))
}

func (u *recordingUI) RenderRequirements(reqs []validation.Requirement) {
	met := 0
	for _, r := range reqs {
		if r.Met {
			met++
		}
	}
	u.add("requirements %d/%d", met, len(reqs))
}

// Calls returns and clears the recorded calls.
func (u *recordingUI) Calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := u.calls
	u.calls = nil
	return out
}

// bareUI exposes only the required contract of the wrapped UI.
type bareUI struct{ view.UI }
