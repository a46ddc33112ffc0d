package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Application links an applicant to a project. The applicant display fields,
// the project title and the leader id are snapshots taken at submission time:
// they are deliberately not re-resolved if the profile or project changes
// later, so the leader sees what the applicant looked like when they applied.
type Application struct {
	ID             bson.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectID      string            `json:"projectId" bson:"projectId"`
	ProjectTitle   string            `json:"projectTitle" bson:"projectTitle"`
	LeaderID       string            `json:"leaderId" bson:"leaderId"`
	ApplicantID    string            `json:"applicantId" bson:"applicantId"`
	ApplicantName  string            `json:"applicantName,omitempty" bson:"applicantName,omitempty"`
	ApplicantEmail string            `json:"applicantEmail,omitempty" bson:"applicantEmail,omitempty"`
	ApplicantPhoto string            `json:"applicantPhoto,omitempty" bson:"applicantPhoto,omitempty"`
	Message        string            `json:"message" bson:"message"`
	SkillMatch     int               `json:"skillMatch" bson:"skillMatch"`
	MatchedTech    []string          `json:"matchedTech,omitempty" bson:"matchedTech,omitempty"`
	Status         ApplicationStatus `json:"status" bson:"status"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
	ResolvedAt     *time.Time        `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}
