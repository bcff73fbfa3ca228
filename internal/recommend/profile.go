package recommend

import (
	"fmt"
	"strings"

	"github.com/disha-labs/intern-recommender/internal/catalog"
)

// CandidateProfile is the request-scoped candidate description. Profiles are
// never persisted; every request carries a complete one.
type CandidateProfile struct {
	EducationLevel     string   `json:"education_level"`
	MajorField         string   `json:"major_field,omitempty"`
	Skills             []string `json:"skills"`
	PreferredSectors   []string `json:"preferred_sectors,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`
	RemoteOK           bool     `json:"remote_ok,omitempty"`
	AvailabilityStart  string   `json:"availability_start,omitempty"`
	DurationWeeksPref  int      `json:"duration_weeks_pref,omitempty"`
	StipendPref        string   `json:"stipend_pref,omitempty"`
	CareerGoal         string   `json:"career_goal,omitempty"`
}

// Validate checks the profile the engine requires. A profile with no skills
// or no education level cannot be scored meaningfully, so it is rejected
// before any index work happens.
func (p *CandidateProfile) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.EducationLevel) == "" {
		fields["education_level"] = "is required"
	} else if catalog.QualificationRank(strings.ToLower(strings.TrimSpace(p.EducationLevel))) == 0 {
		fields["education_level"] = "must be one of: 12th, diploma, ug, pg"
	}

	if len(p.normalizedSkills()) == 0 {
		fields["skills"] = "at least one skill is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// normalizedSkills returns the candidate skills lowercased, trimmed and
// deduplicated, preserving first-seen order.
func (p *CandidateProfile) normalizedSkills() []string {
	seen := make(map[string]bool, len(p.Skills))
	out := make([]string, 0, len(p.Skills))
	for _, skill := range p.Skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, skill)
	}
	return out
}

// Text builds the text representation of the profile that gets embedded.
// The field order is fixed so identical profiles always embed identically.
func (p *CandidateProfile) Text() string {
	var parts []string

	if p.MajorField != "" {
		parts = append(parts, fmt.Sprintf("%s student at %s level", p.MajorField, p.EducationLevel))
	} else {
		parts = append(parts, fmt.Sprintf("Student at %s level", p.EducationLevel))
	}

	if skills := p.normalizedSkills(); len(skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(skills, ", "))
	}

	parts = append(parts, "Education: "+p.EducationLevel)

	if len(p.PreferredSectors) > 0 {
		parts = append(parts, "Interested in sectors: "+strings.Join(p.PreferredSectors, ", "))
	}

	if p.CareerGoal != "" {
		parts = append(parts, "Career goal: "+p.CareerGoal)
	}

	if len(p.PreferredLocations) > 0 {
		parts = append(parts, "Preferred locations: "+strings.Join(p.PreferredLocations, ", "))
	}

	if p.RemoteOK {
		parts = append(parts, "Open to remote work")
	}

	if p.DurationWeeksPref > 0 {
		parts = append(parts, fmt.Sprintf("Preferred duration: %d weeks", p.DurationWeeksPref))
	}

	if p.StipendPref != "" {
		parts = append(parts, "Expected stipend: "+p.StipendPref)
	}

	return strings.Join(parts, ". ")
}
