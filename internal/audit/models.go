package audit

import "time"

// Action names a recorded admin action.
type Action string

const (
	LocationCreated         Action = "location_created"
	LocationUpdated         Action = "location_updated"
	LocationDeleted         Action = "location_deleted"
	LocationDocumentToggled Action = "location_document_toggled"

	UserCreated Action = "user_created"
	UserUpdated Action = "user_updated"
	UserDeleted Action = "user_deleted"

	SignInSucceeded Action = "sign_in_succeeded"
	SignInFailed    Action = "sign_in_failed"
	SignedOut       Action = "signed_out"

	SignInLockoutTriggered Action = "sign_in_lockout_triggered"
	SignInLockoutCleared   Action = "sign_in_lockout_cleared"

	PreferenceUpdated Action = "preference_updated"
)

// Event is emitted by services after a state change or sign-in attempt.
// Request metadata is filled in by the Publisher from the context.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Browser   string    `json:"browser,omitempty"`
	OS        string    `json:"os,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
