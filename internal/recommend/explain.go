package recommend

import (
	"fmt"
	"strings"

	"github.com/disha-labs/intern-recommender/internal/catalog"
)

// ComponentScore is one signal's share of the final score.
type ComponentScore struct {
	RawScore     float64 `json:"raw_score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Percentage   float64 `json:"percentage"`
}

// ScoringBreakdown exposes the full arithmetic behind a recommendation so a
// counselor can audit why a listing ranked where it did.
type ScoringBreakdown struct {
	OverallScore           float64                   `json:"overall_score"`
	ComponentScores        map[string]ComponentScore `json:"component_scores"`
	WeightsUsed            map[string]float64        `json:"weights_used"`
	RecommendationStrength string                    `json:"recommendation_strength"`
}

// Recommendation is one ranked result returned to the caller.
type Recommendation struct {
	InternshipID     string           `json:"internship_id"`
	Title            string           `json:"title"`
	Organization     string           `json:"organization"`
	SectorTags       []string         `json:"sector_tags"`
	Location         catalog.Location `json:"location"`
	RemoteAllowed    bool             `json:"remote_allowed"`
	Stipend          string           `json:"stipend"`
	DurationWeeks    int              `json:"duration_weeks"`
	PostedDate       string           `json:"posted_date"`
	URL              string           `json:"url"`
	Score            float64          `json:"score"`
	MatchReasons     []string         `json:"match_reasons"`
	ExplainText      string           `json:"explain_text"`
	ScoringBreakdown ScoringBreakdown `json:"scoring_breakdown"`
}

// strengthFor maps a final score onto the qualitative band shown to users.
func strengthFor(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent Match"
	case score >= 0.6:
		return "Very Good Match"
	case score >= 0.4:
		return "Good Match"
	case score >= 0.2:
		return "Fair Match"
	default:
		return "Low Match"
	}
}

// breakdownFor assembles the per-signal arithmetic for a scored listing.
func breakdownFor(raw map[string]float64, weights map[string]float64, score float64) ScoringBreakdown {
	components := make(map[string]ComponentScore, len(raw))
	for name, value := range raw {
		weight := weights[name]
		contribution := value * weight
		var percentage float64
		if score > 0 {
			percentage = contribution / score * 100
		}
		components[name] = ComponentScore{
			RawScore:     round4(value),
			Weight:       weight,
			Contribution: round4(contribution),
			Percentage:   round2(percentage),
		}
	}

	used := make(map[string]float64, len(weights))
	for name, weight := range weights {
		used[name] = weight
	}

	return ScoringBreakdown{
		OverallScore:           round4(score),
		ComponentScores:        components,
		WeightsUsed:            used,
		RecommendationStrength: strengthFor(score),
	}
}

// matchReasons derives the human-readable reason list from the numeric
// breakdown. Every reason is backed by a number already in the breakdown;
// nothing here invents new judgments.
func matchReasons(profile *CandidateProfile, listing *catalog.Internship,
	raw map[string]float64, skillMatches []SkillMatch, locationTier string) []string {

	var reasons []string

	if len(listing.PreferredSkills) > 0 {
		reasons = append(reasons, fmt.Sprintf("Skills: %d/%d matched", len(skillMatches), len(listing.PreferredSkills)))
	}

	switch raw[SignalQualification] {
	case qualificationExact:
		reasons = append(reasons, "Education meets the minimum qualification")
	case qualificationAbove:
		reasons = append(reasons, "Education exceeds the minimum qualification")
	case qualificationBelow:
		reasons = append(reasons, "Education is below the minimum qualification")
	}

	switch locationTier {
	case locationTierCity:
		reasons = append(reasons, "Located in a preferred city")
	case locationTierDistrict:
		reasons = append(reasons, "Located in a preferred district")
	case locationTierState:
		reasons = append(reasons, "Located in a preferred state")
	case locationTierRemote:
		reasons = append(reasons, "Remote work possible")
	}

	if sectors := sectorOverlap(profile.PreferredSectors, listing.SectorTags); len(sectors) > 0 {
		reasons = append(reasons, "Sector interest: "+strings.Join(sectors, ", "))
	}

	if raw[SignalStipend] == stipendWithinRange {
		reasons = append(reasons, "Stipend within the expected range")
	}

	if raw[SignalRecency] == recencyWeek {
		reasons = append(reasons, "Posted within the last week")
	}

	return reasons
}

// sectorOverlap returns the candidate's preferred sectors that appear in the
// listing's tags, preserving the candidate's order.
func sectorOverlap(preferred, tags []string) []string {
	if len(preferred) == 0 || len(tags) == 0 {
		return nil
	}

	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	var out []string
	for _, sector := range preferred {
		key := strings.ToLower(strings.TrimSpace(sector))
		if key != "" && tagSet[key] {
			out = append(out, key)
		}
	}
	return out
}

// explainText renders the deterministic one-paragraph explanation from the
// breakdown and reasons. The optional paraphraser may replace this text but
// never the data behind it.
func explainText(listing *catalog.Internship, breakdown ScoringBreakdown, reasons []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s is a %s (score %.2f).",
		listing.Title, listing.Organization,
		strings.ToLower(breakdown.RecommendationStrength), breakdown.OverallScore)

	if len(reasons) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(reasons, ". "))
		b.WriteString(".")
	}

	return b.String()
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
