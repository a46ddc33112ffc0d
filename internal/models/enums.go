package models

type ProjectType string

const (
	ProjectTypeSideProject ProjectType = "sideProject"
	ProjectTypeHackathon   ProjectType = "hackathon"
	ProjectTypeResearch    ProjectType = "research"
	ProjectTypeOpenSource  ProjectType = "openSource"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeSideProject, ProjectTypeHackathon, ProjectTypeResearch, ProjectTypeOpenSource:
		return true
	}
	return false
}

// Durations match the fixed choices offered by the posting form.
var ProjectDurations = []string{
	"<1 Month",
	"1 - 3 Months",
	"3 - 6 Months",
	"6+ Months",
}

func ValidDuration(d string) bool {
	for _, v := range ProjectDurations {
		if v == d {
			return true
		}
	}
	return false
}

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusDeclined ApplicationStatus = "declined"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}
