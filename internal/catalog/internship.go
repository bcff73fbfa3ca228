package catalog

import (
	"encoding/json"
	"os"
	"time"
)

// Qualification levels form an ordinal scale used for eligibility comparison.
const (
	Qualification12th    = "12th"
	QualificationDiploma = "diploma"
	QualificationUG      = "ug"
	QualificationPG      = "pg"
)

var qualificationRanks = map[string]int{
	Qualification12th:    1,
	QualificationDiploma: 2,
	QualificationUG:      3,
	QualificationPG:      4,
}

// QualificationRank maps a qualification level to its ordinal rank.
// Unknown levels rank 0.
func QualificationRank(level string) int {
	return qualificationRanks[level]
}

// Location is the structured place an internship is hosted at.
type Location struct {
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
}

// Internship is one normalized catalog listing. Records are immutable once
// indexed; the engine never mutates them.
type Internship struct {
	ID                          string   `json:"internship_id"`
	Title                       string   `json:"title"`
	Organization                string   `json:"organization"`
	SectorTags                  []string `json:"sector_tags"`
	Description                 string   `json:"description"`
	Responsibilities            string   `json:"responsibilities,omitempty"`
	RequiredQualifications      string   `json:"required_qualifications,omitempty"`
	PreferredSkills             []string `json:"preferred_skills"`
	Stipend                     string   `json:"stipend"`
	Location                    Location `json:"location"`
	RemoteAllowed               bool     `json:"remote_allowed"`
	DurationWeeks               int      `json:"duration_weeks"`
	StartDate                   string   `json:"start_date,omitempty"`
	ApplicationDeadline         string   `json:"application_deadline"`
	EligibilityMinQualification string   `json:"eligibility_min_qualification"`
	URL                         string   `json:"url"`
	PostedDate                  string   `json:"posted_date"`
}

// PostedAt parses the listing posting date. The zero time and false are
// returned when the date is missing or malformed.
func (i *Internship) PostedAt() (time.Time, bool) {
	if i.PostedDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", i.PostedDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Internships is an ordered collection of listings.
type Internships struct {
	Items []*Internship
}

func (s *Internships) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

func (s *Internships) FindByID(id string) *Internship {
	for _, item := range s.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// IDs returns listing ids in insertion order.
func (s *Internships) IDs() []string {
	ids := make([]string, 0, s.Len())
	for _, item := range s.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// DumpToFile writes the collection as indented JSON, mostly for debugging
// normalization runs.
func (s *Internships) DumpToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
