package domain

// Response is the envelope written once per invocation.
// It is either a success carrying the action list or a failure carrying a description, never both.
type Response struct {
	OK      bool       `json:"ok"`
	Actions ActionList `json:"actions,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Success builds the success envelope. A nil list is emitted as an empty array.
func Success(actions ActionList) Response {
	if actions == nil {
		actions = ActionList{}
	}
	return Response{OK: true, Actions: actions}
}

// Failure builds the failure envelope from err.
func Failure(err error) Response {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Response{OK: false, Error: msg}
}

// MarshalJSON writes exactly one of the two envelope shapes.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.OK {
		actions := r.Actions
		if actions == nil {
			actions = ActionList{}
		}
		return encodeJSON(struct {
			OK      bool       `json:"ok"`
			Actions ActionList `json:"actions"`
		}{true, actions})
	}
	return encodeJSON(struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}{false, r.Error})
}

// Encode returns the single-line wire form of the envelope, without a trailing newline.
func (r Response) Encode() ([]byte, error) {
	return encodeJSON(r)
}
