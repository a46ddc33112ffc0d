// Package matching computes the skill-match score between a user's declared
// skills and a project's tech stack. Everything here is pure: no I/O, no
// state, same inputs always give the same score.
package matching

import (
	"math"
	"strings"
)

// Score returns an integer in [0,100] measuring how much of techStack is
// covered by skills. Comparison is case-insensitive and a tech counts as
// matched on bidirectional substring containment, so "React" covers
// "React.js" and vice versa. If either side is empty no overlap can be
// established and the score is 0.
func Score(skills, techStack []string) int {
	if len(skills) == 0 || len(techStack) == 0 {
		return 0
	}

	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		lowered = append(lowered, strings.ToLower(s))
	}

	matched := 0
	for _, tech := range techStack {
		if covered(lowered, strings.ToLower(tech)) {
			matched++
		}
	}

	return int(math.Round(100 * float64(matched) / float64(len(techStack))))
}

// Matched returns the techStack entries covered by skills, preserving the
// stack's order, so callers can show which technologies lined up.
func Matched(skills, techStack []string) []string {
	if len(skills) == 0 || len(techStack) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		lowered = append(lowered, strings.ToLower(s))
	}

	var out []string
	for _, tech := range techStack {
		if covered(lowered, strings.ToLower(tech)) {
			out = append(out, tech)
		}
	}
	return out
}

func covered(loweredSkills []string, tech string) bool {
	for _, skill := range loweredSkills {
		if skill == "" || tech == "" {
			continue
		}
		if strings.Contains(skill, tech) || strings.Contains(tech, skill) {
			return true
		}
	}
	return false
}
