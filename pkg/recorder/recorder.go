// Package recorder accumulates the actions a plugin requests during one invocation.
package recorder

import (
	"github.com/aretw0/botbridge/pkg/domain"
)

// API is the append-only surface handed to plugins.
// Every call records exactly one action; none of them can fail.
type API interface {
	Send(text any, opts ...ActionOption)
	SendDM(userID, text any, opts ...ActionOption)
	SendGroup(groupID, text any, opts ...ActionOption)
}

// ActionOption decorates an action before it is recorded.
type ActionOption func(*domain.Action)

// WithReplyMarkup attaches a host-interpreted reply markup to the action.
// A nil markup is ignored.
func WithReplyMarkup(markup any) ActionOption {
	return func(a *domain.Action) {
		if markup != nil {
			a.ReplyMarkup = markup
		}
	}
}

// Recorder owns the action list of a single invocation.
// It is not safe for concurrent use; an invocation runs on one goroutine.
type Recorder struct {
	actions domain.ActionList
}

var _ API = (*Recorder)(nil)

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Send records a reply to the conversation the update came from.
func (r *Recorder) Send(text any, opts ...ActionOption) {
	r.record(domain.Action{
		Type: domain.ActionSend,
		Text: Stringify(text),
	}, opts)
}

// SendDM records a direct message to userID.
func (r *Recorder) SendDM(userID, text any, opts ...ActionOption) {
	r.record(domain.Action{
		Type:   domain.ActionSendDM,
		UserID: Stringify(userID),
		Text:   Stringify(text),
	}, opts)
}

// SendGroup records a message to groupID.
func (r *Recorder) SendGroup(groupID, text any, opts ...ActionOption) {
	r.record(domain.Action{
		Type:    domain.ActionSendGroup,
		GroupID: Stringify(groupID),
		Text:    Stringify(text),
	}, opts)
}

func (r *Recorder) record(action domain.Action, opts []ActionOption) {
	for _, opt := range opts {
		opt(&action)
	}
	r.actions = append(r.actions, action)
}

// Len returns the number of recorded actions.
func (r *Recorder) Len() int {
	return len(r.actions)
}

// Actions returns a copy of the recorded list in insertion order.
// The result is never nil.
func (r *Recorder) Actions() domain.ActionList {
	out := make(domain.ActionList, len(r.actions))
	copy(out, r.actions)
	return out
}
