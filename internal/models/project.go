package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is a posting authored by exactly one leader. The members array is
// the single source of truth for who is on the project: it is seeded with the
// author at creation and grows only through accepted applications.
type Project struct {
	ID          bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Tagline     string        `json:"tagline" bson:"tagline"`
	Description string        `json:"description" bson:"description"`
	ProjectType ProjectType   `json:"projectType" bson:"projectType"`
	TechStack   []string      `json:"techStack" bson:"techStack"`
	RolesNeeded []string      `json:"rolesNeeded" bson:"rolesNeeded"`
	Duration    string        `json:"duration" bson:"duration"`
	AuthorID    string        `json:"authorId" bson:"authorId"`
	AuthorName  string        `json:"authorName,omitempty" bson:"authorName,omitempty"`
	AuthorPhoto string        `json:"authorPhoto,omitempty" bson:"authorPhoto,omitempty"`
	Members     []string      `json:"members" bson:"members"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
}
