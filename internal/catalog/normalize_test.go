package catalog

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

const catalogHeader = "internship_id,title,organization,sector_tags,description,preferred_skills,stipend,location_city,location_district,location_state,remote_allowed,duration_weeks,eligibility_min_qualification,posted_date"

func normalize(t *testing.T, csv string) *Result {
	t.Helper()

	result, err := NewNormalizer(zap.NewNop()).Normalize(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	return result
}

func TestNormalizeAcceptsValidRows(t *testing.T) {
	csv := catalogHeader + "\n" +
		"INT001,Data Intern,StatWorks,\"Analytics, Consulting\",Analyze data,\"Python, SQL, python\",5000-8000,Pune,Pune District,Maharashtra,yes,8,ug,2025-06-10\n"

	result := normalize(t, csv)

	if result.Listings.Len() != 1 || len(result.Skipped) != 0 {
		t.Fatalf("Normalize() = %d listings, %d skipped, want 1 and 0", result.Listings.Len(), len(result.Skipped))
	}

	listing := result.Listings.Items[0]
	if listing.ID != "INT001" || listing.Title != "Data Intern" {
		t.Errorf("listing = %+v, want INT001/Data Intern", listing)
	}
	if len(listing.SectorTags) != 2 || listing.SectorTags[0] != "analytics" {
		t.Errorf("sector tags = %v, want lowercased set", listing.SectorTags)
	}
	// Duplicate skill collapses.
	if len(listing.PreferredSkills) != 2 {
		t.Errorf("preferred skills = %v, want [python sql]", listing.PreferredSkills)
	}
	if !listing.RemoteAllowed {
		t.Error("remote_allowed 'yes' not coerced to true")
	}
	if listing.DurationWeeks != 8 {
		t.Errorf("duration weeks = %d, want 8", listing.DurationWeeks)
	}
	if listing.Location.City != "Pune" || listing.Location.State != "Maharashtra" {
		t.Errorf("location = %+v", listing.Location)
	}
	if listing.EligibilityMinQualification != "ug" {
		t.Errorf("eligibility = %q, want ug", listing.EligibilityMinQualification)
	}
}

func TestNormalizeSkipsRowsMissingRequiredFields(t *testing.T) {
	csv := catalogHeader + "\n" +
		",No ID,Org,tech,Some description,python,,,,,no,4,ug,2025-06-10\n" +
		"INT002,,Org,tech,Some description,python,,,,,no,4,ug,2025-06-10\n" +
		"INT003,No Description,Org,tech,,python,,,,,no,4,ug,2025-06-10\n" +
		"INT004,Valid,Org,tech,Fine description,python,,,,,no,4,ug,2025-06-10\n"

	result := normalize(t, csv)

	if result.Listings.Len() != 1 {
		t.Fatalf("accepted %d listings, want 1", result.Listings.Len())
	}
	if result.Listings.Items[0].ID != "INT004" {
		t.Errorf("accepted listing = %s, want INT004", result.Listings.Items[0].ID)
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("skipped %d rows, want 3", len(result.Skipped))
	}
	for _, skipped := range result.Skipped {
		if skipped.Reason == "" {
			t.Errorf("skipped row %d has no reason", skipped.Line)
		}
	}
}

func TestNormalizeReportsDuplicateIDs(t *testing.T) {
	csv := catalogHeader + "\n" +
		"INT001,First,Org,tech,Description one,python,,,,,no,4,ug,2025-06-10\n" +
		"INT001,Second,Org,tech,Description two,sql,,,,,no,4,ug,2025-06-11\n"

	result := normalize(t, csv)

	if result.Listings.Len() != 1 {
		t.Fatalf("accepted %d listings, want 1", result.Listings.Len())
	}
	if result.Listings.Items[0].Title != "First" {
		t.Errorf("kept listing = %q, want the first occurrence", result.Listings.Items[0].Title)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "duplicate internship id" {
		t.Errorf("skipped = %+v, want one duplicate-id record", result.Skipped)
	}
}

func TestNormalizeCoercesStipendSentinels(t *testing.T) {
	csv := catalogHeader + "\n" +
		"INT001,A,Org,tech,Description,python,unpaid,,,,no,4,ug,2025-06-10\n" +
		"INT002,B,Org,tech,Description,python,N/A,,,,no,4,ug,2025-06-10\n" +
		"INT003,C,Org,tech,Description,python,5000,,,,no,4,ug,2025-06-10\n"

	result := normalize(t, csv)

	if result.Listings.Items[0].Stipend != "" || result.Listings.Items[1].Stipend != "" {
		t.Errorf("unknown stipends not collapsed: %q, %q",
			result.Listings.Items[0].Stipend, result.Listings.Items[1].Stipend)
	}
	if result.Listings.Items[2].Stipend != "5000" {
		t.Errorf("stipend = %q, want 5000", result.Listings.Items[2].Stipend)
	}
}

func TestNormalizeToleratesShortRows(t *testing.T) {
	csv := catalogHeader + "\n" +
		"INT001,Short Row,Org,tech,Description\n"

	result := normalize(t, csv)

	if result.Listings.Len() != 1 {
		t.Fatalf("accepted %d listings, want 1 (missing trailing columns default)", result.Listings.Len())
	}
	if result.Listings.Items[0].RemoteAllowed {
		t.Error("missing remote_allowed column coerced to true, want false")
	}
}

func TestSplitSet(t *testing.T) {
	got := SplitSet(" Python, SQL ,python,,  Excel ")
	want := []string{"python", "sql", "excel"}
	if len(got) != len(want) {
		t.Fatalf("SplitSet() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitSet()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if SplitSet("   ") != nil {
		t.Error("SplitSet(blank) != nil")
	}
}
