package models

import "time"

// ProfileDTO carries a partial profile update; nil fields are left untouched
// (merge semantics).
type ProfileDTO struct {
	DisplayName *string  `json:"displayName,omitempty"`
	PhotoURL    *string  `json:"photoURL,omitempty"`
	Branch      *string  `json:"branch,omitempty"`
	Year        *string  `json:"year,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Socials     *Socials `json:"socials,omitempty"`
}

type CreateProjectRequest struct {
	Title       string      `json:"title"`
	Tagline     string      `json:"tagline"`
	Description string      `json:"description"`
	ProjectType ProjectType `json:"projectType"`
	TechStack   []string    `json:"techStack"`
	RolesNeeded []string    `json:"rolesNeeded"`
	Duration    string      `json:"duration"`
}

type ProjectListQuery struct {
	ProjectType string `json:"projectType"`
	Duration    string `json:"duration"`
	Page        int    `json:"page"`
	PageSize    int    `json:"pageSize"`
}

type SubmitApplicationRequest struct {
	Message string `json:"message"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// ConversationView is a conversation as the inbox shows it: annotated with
// the other participant's cached display name and the caller's unread state.
type ConversationView struct {
	Conversation
	OtherUserID string `json:"otherUserId"`
	OtherName   string `json:"otherName"`
	Unread      bool   `json:"unread"`
}

// InboxView is everything the notification badge and inbox screens need,
// recomputed from the live stores on every change notification.
type InboxView struct {
	PendingCount  int                `json:"pendingCount"`
	PendingList   []*Application     `json:"pendingList"`
	Conversations []ConversationView `json:"conversations"`
	HasUnread     bool               `json:"hasUnread"`
	ComputedAt    time.Time          `json:"computedAt"`
}
