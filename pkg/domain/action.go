package domain

// ActionType identifies the side effect an Action requests from the host.
type ActionType string

// Supported action types.
const (
	// ActionSend replies in the conversation the update came from.
	// Fields: text.
	ActionSend ActionType = "send"

	// ActionSendDM sends a direct message to a user.
	// Fields: user_id, text.
	ActionSendDM ActionType = "send_dm"

	// ActionSendGroup posts a message to a group.
	// Fields: group_id, text.
	ActionSendGroup ActionType = "send_group"
)

// Action is one normalized side effect requested by a plugin during an invocation.
// Identifier and text fields are always strings; coercion happens when the action is recorded.
type Action struct {
	Type    ActionType `json:"type"`
	UserID  string     `json:"user_id,omitempty"`
	GroupID string     `json:"group_id,omitempty"`
	Text    string     `json:"text"`

	// ReplyMarkup is an optional, host-interpreted keyboard/markup payload.
	ReplyMarkup any `json:"reply_markup,omitempty"`
}

// ActionList is the ordered sequence of actions emitted by one invocation.
// Order is emission order.
type ActionList []Action

// MarshalJSON emits only the fields that belong to the action's variant, so a
// send_dm always carries user_id and a send never does.
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case ActionSendDM:
		return encodeJSON(struct {
			Type        ActionType `json:"type"`
			UserID      string     `json:"user_id"`
			Text        string     `json:"text"`
			ReplyMarkup any        `json:"reply_markup,omitempty"`
		}{a.Type, a.UserID, a.Text, a.ReplyMarkup})
	case ActionSendGroup:
		return encodeJSON(struct {
			Type        ActionType `json:"type"`
			GroupID     string     `json:"group_id"`
			Text        string     `json:"text"`
			ReplyMarkup any        `json:"reply_markup,omitempty"`
		}{a.Type, a.GroupID, a.Text, a.ReplyMarkup})
	default:
		return encodeJSON(struct {
			Type        ActionType `json:"type"`
			Text        string     `json:"text"`
			ReplyMarkup any        `json:"reply_markup,omitempty"`
		}{a.Type, a.Text, a.ReplyMarkup})
	}
}
