package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/triage/internal/model"
)

// Element IDs.
const (
	ElementFileInput  = "fileInput"
	ElementRemoveFile = "btnRemoveFile"
	ElementAnalyze    = "btnAnalyze"
	ElementRestart    = "btnRestart"
	ElementCopy       = "btnCopy"
	ElementDocument   = "document"
)

// Events.
const (
	EventChange         = "change"
	EventClick          = "click"
	EventEscape         = "escape"
	EventSubmitShortcut = "submit-shortcut"
)

// Registry errors.
var (
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrUnboundEvent     = errors.New("no handler bound")
)

// Payload carries event data. Only file selection uses it.
type Payload struct {
	Document *model.Document
}

// Handler reacts to one event.
type Handler func(ctx context.Context, p Payload) error

// Binding ties an event on an element to a handler.
type Binding struct {
	Handler   Handler
	Event     string
	ElementID string
}

type trigger struct {
	element string
	event   string
}

// Registry dispatches events to bound handlers.
type Registry struct {
	handlers map[trigger]Handler
	order    []Binding
}

// NewRegistry installs bindings. Each (element, event) pair may be bound once.
func NewRegistry(bindings []Binding) (*Registry, error) {
	r := &Registry{handlers: make(map[trigger]Handler, len(bindings))}
	for _, b := range bindings {
		if b.Handler == nil {
			return nil, fmt.Errorf("binding %s/%s has no handler", b.ElementID, b.Event)
		}
		key := trigger{element: b.ElementID, event: b.Event}
		if _, exists := r.handlers[key]; exists {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateBinding, b.ElementID, b.Event)
		}
		r.handlers[key] = b.Handler
		r.order = append(r.order, b)
	}
	return r, nil
}

// Dispatch runs the handler bound to (element, event).
func (r *Registry) Dispatch(ctx context.Context, element, event string, p Payload) error {
	h, ok := r.handlers[trigger{element: element, event: event}]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnboundEvent, element, event)
	}
	return h(ctx, p)
}

// Bound reports whether (element, event) has a handler.
func (r *Registry) Bound(element, event string) bool {
	_, ok := r.handlers[trigger{element: element, event: event}]
	return ok
}

// Bindings returns the installed bindings in registration order.
func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.order...)
}

// Bindings is the controller's event table.
func (c *Controller) Bindings() []Binding {
	return []Binding{
		{ElementID: ElementFileInput, Event: EventChange, Handler: func(_ context.Context, p Payload) error {
			return c.SelectFile(p.Document)
		}},
		{ElementID: ElementRemoveFile, Event: EventClick, Handler: func(context.Context, Payload) error {
			c.RemoveFile()
			return nil
		}},
		{ElementID: ElementAnalyze, Event: EventClick, Handler: func(ctx context.Context, _ Payload) error {
			return c.Submit(ctx)
		}},
		{ElementID: ElementRestart, Event: EventClick, Handler: func(ctx context.Context, _ Payload) error {
			return c.Reset(ctx)
		}},
		{ElementID: ElementCopy, Event: EventClick, Handler: func(context.Context, Payload) error {
			return c.Copy()
		}},
		{ElementID: ElementDocument, Event: EventEscape, Handler: func(context.Context, Payload) error {
			c.ClearSelection()
			return nil
		}},
		{ElementID: ElementDocument, Event: EventSubmitShortcut, Handler: func(ctx context.Context, _ Payload) error {
			return c.Submit(ctx)
		}},
	}
}

// Wire builds a Registry from the controller's bindings.
func (c *Controller) Wire() (*Registry, error) {
	return NewRegistry(c.Bindings())
}
