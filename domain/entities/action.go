package entities

import "time"

// ActionType represents the kind of interaction performed on a page
type ActionType string

const (
	ActionNavigate    ActionType = "navigate"
	ActionWait        ActionType = "wait"
	ActionClick       ActionType = "click"
	ActionTypeText    ActionType = "type"
	ActionGetText     ActionType = "get_text"
	ActionScroll      ActionType = "scroll"
	ActionCount       ActionType = "count"
	ActionVisibility  ActionType = "visibility"
	ActionNetworkIdle ActionType = "network_idle"
	ActionScreenshot  ActionType = "screenshot"
)

// InteractionEvent describes a single finished engine call
type InteractionEvent struct {
	Action  ActionType    `json:"action"`
	Element Element       `json:"element"`
	State   ElementState  `json:"state,omitempty"`
	Policy  WaitPolicy    `json:"policy"`
	Timeout time.Duration `json:"timeout,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`
}

// Success reports whether the interaction finished without error
func (e InteractionEvent) Success() bool {
	return e.Err == nil
}
