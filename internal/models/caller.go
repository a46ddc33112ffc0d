package models

// Caller is the identity the gateway attaches to every protected request.
// The service never manages credentials itself; it trusts the X-User-*
// headers injected upstream.
type Caller struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}
