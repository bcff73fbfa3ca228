package recommend

import "strings"

const (
	fuzzySkillThreshold = 0.72
	fuzzySkillCredit    = 0.5
	neutralSkillScore   = 0.5
)

// SkillMatcher decides how much credit a candidate skill earns against a
// listing skill. Match returns a credit in [0,1]; 0 means no match.
type SkillMatcher interface {
	Match(candidateSkill, listingSkill string) float64
}

// SkillMatch records one credited listing skill for explanation output.
type SkillMatch struct {
	ListingSkill   string
	CandidateSkill string
	Credit         float64
}

// fuzzyMatcher is the default matcher: exact match, alias table, substring
// containment, then bigram similarity. Fuzzy matches earn half credit scaled
// by how close they are.
type fuzzyMatcher struct {
	aliases map[string]string
}

// skillAliases folds common spelling variants to one canonical token.
var skillAliases = map[string]string{
	"js":               "javascript",
	"reactjs":          "react",
	"react.js":         "react",
	"nodejs":           "node",
	"node.js":          "node",
	"ms excel":         "excel",
	"microsoft excel":  "excel",
	"postgres":         "postgresql",
	"py":               "python",
	"ml":               "machine learning",
	"ai":               "artificial intelligence",
	"data analysis":    "data analytics",
	"communication":    "communication skills",
	"google sheets":    "spreadsheets",
	"social media":     "social media marketing",
	"digital markting": "digital marketing",
}

// NewFuzzyMatcher returns the default skill matcher.
func NewFuzzyMatcher() SkillMatcher {
	return &fuzzyMatcher{aliases: skillAliases}
}

func (m *fuzzyMatcher) canonical(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if alias, ok := m.aliases[skill]; ok {
		return alias
	}
	return skill
}

func (m *fuzzyMatcher) Match(candidateSkill, listingSkill string) float64 {
	candidate := m.canonical(candidateSkill)
	listing := m.canonical(listingSkill)
	if candidate == "" || listing == "" {
		return 0
	}

	if candidate == listing {
		return 1.0
	}

	// Containment catches "sql" vs "sql server" style pairs, but only for
	// tokens long enough to carry meaning.
	if len(candidate) >= 4 && len(listing) >= 4 &&
		(strings.Contains(candidate, listing) || strings.Contains(listing, candidate)) {
		return fuzzySkillCredit
	}

	if sim := bigramSimilarity(candidate, listing); sim >= fuzzySkillThreshold {
		return fuzzySkillCredit * sim
	}

	return 0
}

// bigramSimilarity is the Dice coefficient over character bigrams.
func bigramSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}

	var overlap int
	for i := 0; i < len(b)-1; i++ {
		pair := b[i : i+2]
		if bigrams[pair] > 0 {
			bigrams[pair]--
			overlap++
		}
	}

	return 2.0 * float64(overlap) / float64(len(a)-1+len(b)-1)
}

// skillOverlap scores how well the candidate covers the listing's preferred
// skills. Each listing skill earns the best credit any candidate skill gives
// it; the sum is divided by the listing skill count, so the score is monotone
// in the candidate skill set. Listings without a skill set score neutral.
func skillOverlap(matcher SkillMatcher, candidateSkills, listingSkills []string) (float64, []SkillMatch) {
	if len(listingSkills) == 0 {
		return neutralSkillScore, nil
	}
	if len(candidateSkills) == 0 {
		return 0, nil
	}

	var total float64
	matches := make([]SkillMatch, 0, len(listingSkills))
	for _, listingSkill := range listingSkills {
		var best float64
		var bestCandidate string
		for _, candidateSkill := range candidateSkills {
			if credit := matcher.Match(candidateSkill, listingSkill); credit > best {
				best = credit
				bestCandidate = candidateSkill
			}
		}
		if best > 0 {
			total += best
			matches = append(matches, SkillMatch{
				ListingSkill:   listingSkill,
				CandidateSkill: bestCandidate,
				Credit:         best,
			})
		}
	}

	score := total / float64(len(listingSkills))
	if score > 1.0 {
		score = 1.0
	}
	return score, matches
}
