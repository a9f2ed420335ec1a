package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/authfront/internal/validation"
	"github.com/dmitrijs2005/authfront/internal/view"
)

type (
	fieldErrorMsg struct{ field, text string }
	fieldOKMsg    struct{ field string }
	successMsg    struct{ area, text string }
	navigateMsg   struct{ view view.View }
	popupMsg      struct{ title, text string }
	hidePopupMsg  struct{}
	loadingMsg    struct {
		form    view.Form
		loading bool
		label   string
	}
	prefillMsg      struct{ field, value string }
	profileMsg      struct{ profile view.Profile }
	requirementsMsg struct{ reqs []validation.Requirement }
	reloadedMsg     struct{ err error }
)

// Bridge is the view.UI the frontend renders into. Every callback becomes a
// tea.Msg on a buffered channel that the model drains, so the frontend loop
// never waits on the program's Update.
type Bridge struct {
	events chan tea.Msg
	done   chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan tea.Msg, 256),
		done:   make(chan struct{}),
	}
}

// Close releases any callback blocked on a full channel. Call it once the
// program has exited.
func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

// wait is the command that delivers the next callback to Update.
func (b *Bridge) wait() tea.Msg {
	select {
	case msg := <-b.events:
		return msg
	case <-b.done:
		return nil
	}
}

func (b *Bridge) RenderFieldError(field, msg string) { b.send(fieldErrorMsg{field, msg}) }
func (b *Bridge) RenderFieldOK(field string)         { b.send(fieldOKMsg{field}) }
func (b *Bridge) RenderSuccess(area, msg string)     { b.send(successMsg{area, msg}) }
func (b *Bridge) NavigateTo(v view.View)             { b.send(navigateMsg{v}) }
func (b *Bridge) ShowPopup(title, msg string)        { b.send(popupMsg{title, msg}) }
func (b *Bridge) HidePopup()                         { b.send(hidePopupMsg{}) }

func (b *Bridge) SetLoading(form view.Form, loading bool, label string) {
	b.send(loadingMsg{form, loading, label})
}

func (b *Bridge) Prefill(field, value string) { b.send(prefillMsg{field, value}) }

func (b *Bridge) RenderProfile(p view.Profile) { b.send(profileMsg{p}) }

func (b *Bridge) RenderRequirements(reqs []validation.Requirement) {
	b.send(requirementsMsg{reqs})
}
