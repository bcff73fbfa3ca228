package recommend

import (
	"strconv"
	"strings"
	"time"

	"github.com/disha-labs/intern-recommender/internal/catalog"
)

// Signal score constants. Each scoring signal maps its inputs onto [0,1];
// missing data lands on a neutral value instead of zero so one absent field
// cannot sink an otherwise strong listing.
const (
	qualificationExact   = 1.0
	qualificationAbove   = 0.8
	qualificationBelow   = 0.3
	qualificationUnknown = 0.5

	locationSameCity     = 1.0
	locationSameDistrict = 0.9
	locationSameState    = 0.7
	locationRemote       = 0.6
	locationNeutral      = 0.5
	locationMismatch     = 0.2

	stipendWithinRange  = 0.8
	stipendNoPreference = 0.5
	stipendDisjoint     = 0.3

	recencyWeek    = 1.0
	recencyMonth   = 0.8
	recencyQuarter = 0.6
	recencyFloor   = 0.3
	recencyUnknown = 0.5
)

// Location tier names surfaced in match reasons.
const (
	locationTierCity     = "same city"
	locationTierDistrict = "same district"
	locationTierState    = "same state"
	locationTierRemote   = "remote"
	locationTierNeutral  = "no preference"
	locationTierNone     = "different state"
)

// qualificationFit compares the candidate's education level against the
// listing's minimum on the 12th < diploma < ug < pg scale. Overqualification
// scores slightly below an exact match; underqualification depresses the rank
// but never filters the listing out.
func qualificationFit(candidateLevel, listingMinimum string) float64 {
	candidate := catalog.QualificationRank(strings.ToLower(strings.TrimSpace(candidateLevel)))
	required := catalog.QualificationRank(strings.ToLower(strings.TrimSpace(listingMinimum)))
	if candidate == 0 || required == 0 {
		return qualificationUnknown
	}

	switch {
	case candidate == required:
		return qualificationExact
	case candidate > required:
		return qualificationAbove
	default:
		return qualificationBelow
	}
}

// locationMatch scores the best tier any preferred location reaches against
// the listing's city, district and state. Remote agreement is a fallback
// tier, not a bonus on top of a geographic match.
func locationMatch(preferred []string, remoteOK bool, listing *catalog.Internship) (float64, string) {
	remoteWorks := remoteOK && listing.RemoteAllowed

	if len(preferred) == 0 {
		if remoteWorks {
			return locationRemote, locationTierRemote
		}
		return locationNeutral, locationTierNeutral
	}

	city := strings.ToLower(strings.TrimSpace(listing.Location.City))
	district := strings.ToLower(strings.TrimSpace(listing.Location.District))
	state := strings.ToLower(strings.TrimSpace(listing.Location.State))

	best := 0.0
	tier := locationTierNone
	for _, place := range preferred {
		place = strings.ToLower(strings.TrimSpace(place))
		if place == "" {
			continue
		}
		switch {
		case city != "" && place == city:
			return locationSameCity, locationTierCity
		case district != "" && place == district && best < locationSameDistrict:
			best, tier = locationSameDistrict, locationTierDistrict
		case state != "" && place == state && best < locationSameState:
			best, tier = locationSameState, locationTierState
		}
	}

	if best > 0 {
		return best, tier
	}
	if remoteWorks {
		return locationRemote, locationTierRemote
	}
	return locationMismatch, locationTierNone
}

// stipendRange is a parsed inclusive stipend band. A single number is a
// degenerate band with min == max.
type stipendRange struct {
	min, max int
}

// parseStipend handles "5000", "5000-8000" and rupee-prefixed variants.
// Anything else reads as absent.
func parseStipend(raw string) (stipendRange, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.TrimPrefix(raw, "rs.")
	raw = strings.TrimPrefix(raw, "rs")
	raw = strings.TrimPrefix(raw, "inr")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return stipendRange{}, false
	}

	if lo, hi, found := strings.Cut(raw, "-"); found {
		minVal, err1 := strconv.Atoi(strings.TrimSpace(lo))
		maxVal, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil || minVal < 0 || maxVal < minVal {
			return stipendRange{}, false
		}
		return stipendRange{min: minVal, max: maxVal}, true
	}

	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return stipendRange{}, false
	}
	return stipendRange{min: val, max: val}, true
}

// stipendMatch scores the overlap between the candidate's expected stipend
// band and the listing's. Absent data on either side is neutral.
func stipendMatch(preference, listingStipend string) float64 {
	want, okWant := parseStipend(preference)
	have, okHave := parseStipend(listingStipend)
	if !okWant || !okHave {
		return stipendNoPreference
	}

	if want.min <= have.max && have.min <= want.max {
		return stipendWithinRange
	}
	return stipendDisjoint
}

// recencyScore steps down with the age of the posting. The floor keeps old
// but relevant listings reachable.
func recencyScore(listing *catalog.Internship, now time.Time) float64 {
	postedAt, ok := listing.PostedAt()
	if !ok {
		return recencyUnknown
	}

	days := int(now.Sub(postedAt).Hours() / 24)
	switch {
	case days <= 7:
		return recencyWeek
	case days <= 30:
		return recencyMonth
	case days <= 90:
		return recencyQuarter
	default:
		return recencyFloor
	}
}

// clampUnit clamps v into [0,1]. Cosine similarity can go negative for
// unrelated texts; a negative similarity carries no more signal than zero.
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
