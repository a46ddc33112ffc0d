package event

// UserEvent is the shape of messages arriving on the user-events exchange
// from the identity side. user.registered carries the display attributes the
// default profile is seeded with.
type UserEvent struct {
	EventType   string `json:"eventType"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

const EventUserRegistered = "user.registered"
