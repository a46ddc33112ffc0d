package models

import "time"

type Socials struct {
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
}

// Profile is the per-user document. Its id is the opaque user id issued by
// the external identity provider, so one login maps to exactly one profile.
type Profile struct {
	UserID        string    `json:"userId" bson:"_id"`
	DisplayName   string    `json:"displayName,omitempty" bson:"displayName,omitempty"`
	PhotoURL      string    `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	Branch        string    `json:"branch,omitempty" bson:"branch,omitempty"`
	Year          string    `json:"year,omitempty" bson:"year,omitempty"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Roles         []string  `json:"roles,omitempty" bson:"roles,omitempty"`
	Skills        []string  `json:"skills,omitempty" bson:"skills,omitempty"`
	Socials       *Socials  `json:"socials,omitempty" bson:"socials,omitempty"`
	SetupComplete bool      `json:"setupComplete" bson:"setupComplete"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OnboardingComplete reports whether the mandatory onboarding fields are
// filled. SetupComplete flips to true only once this holds.
func (p *Profile) OnboardingComplete() bool {
	return p.Bio != "" && len(p.Roles) > 0 && len(p.Skills) > 0
}
