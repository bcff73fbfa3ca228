package embed

import (
	"fmt"
	"strings"

	"github.com/disha-labs/intern-recommender/internal/catalog"
)

const (
	maxDescriptionRunes      = 100
	maxResponsibilitiesRunes = 50
)

// ListingText builds the text representation of a listing that gets embedded.
// The field order is fixed so that rebuilding the index from the same catalog
// and model version yields equivalent vectors.
func ListingText(i *catalog.Internship) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s at %s", i.Title, i.Organization))

	if len(i.PreferredSkills) > 0 {
		parts = append(parts, "Preferred skills: "+strings.Join(i.PreferredSkills, ", "))
	}

	if i.RequiredQualifications != "" {
		parts = append(parts, "Required qualifications: "+i.RequiredQualifications)
	}

	if len(i.SectorTags) > 0 {
		parts = append(parts, "Sectors: "+strings.Join(i.SectorTags, ", "))
	}

	if i.Description != "" {
		parts = append(parts, truncateRunes(i.Description, maxDescriptionRunes))
	}

	if i.Responsibilities != "" {
		parts = append(parts, "Responsibilities: "+truncateRunes(i.Responsibilities, maxResponsibilitiesRunes))
	}

	var location []string
	if i.Location.City != "" {
		location = append(location, i.Location.City)
	}
	if i.Location.State != "" {
		location = append(location, i.Location.State)
	}
	if len(location) > 0 {
		parts = append(parts, "Location: "+strings.Join(location, ", "))
	}

	if i.RemoteAllowed {
		parts = append(parts, "Remote work allowed")
	}

	var terms []string
	if i.DurationWeeks > 0 {
		terms = append(terms, fmt.Sprintf("Duration: %d weeks", i.DurationWeeks))
	}
	if i.Stipend != "" {
		terms = append(terms, "Stipend: "+i.Stipend)
	}
	if len(terms) > 0 {
		parts = append(parts, strings.Join(terms, ". "))
	}

	return strings.Join(parts, ". ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
