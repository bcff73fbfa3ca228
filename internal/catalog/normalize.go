package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// RecordError describes a single catalog row that was rejected during
// normalization. Bad rows never abort the batch; they are collected and
// reported.
type RecordError struct {
	Line   int
	ID     string
	Reason string
}

func (e *RecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %s (line %d): %s", e.ID, e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result carries the outcome of a normalization run.
type Result struct {
	Listings *Internships
	Skipped  []*RecordError
}

// rawRecord mirrors the catalog CSV columns before coercion. Everything is a
// string at this stage; typed fields are derived afterwards.
type rawRecord struct {
	ID                          string `mapstructure:"internship_id"`
	Title                       string `mapstructure:"title"`
	Organization                string `mapstructure:"organization"`
	SectorTags                  string `mapstructure:"sector_tags"`
	Description                 string `mapstructure:"description"`
	Responsibilities            string `mapstructure:"responsibilities"`
	RequiredQualifications      string `mapstructure:"required_qualifications"`
	PreferredSkills             string `mapstructure:"preferred_skills"`
	Stipend                     string `mapstructure:"stipend"`
	LocationCity                string `mapstructure:"location_city"`
	LocationDistrict            string `mapstructure:"location_district"`
	LocationState               string `mapstructure:"location_state"`
	RemoteAllowed               string `mapstructure:"remote_allowed"`
	DurationWeeks               string `mapstructure:"duration_weeks"`
	StartDate                   string `mapstructure:"start_date"`
	ApplicationDeadline         string `mapstructure:"application_deadline"`
	EligibilityMinQualification string `mapstructure:"eligibility_min_qualification"`
	URL                         string `mapstructure:"url"`
	PostedDate                  string `mapstructure:"posted_date"`
}

// Normalizer validates and coerces raw catalog rows into Internship records.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// LoadCSV normalizes the catalog file at path.
func (n *Normalizer) LoadCSV(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	return n.Normalize(file)
}

// Normalize reads the CSV stream and returns validated listings plus the
// rejected rows. Only an unreadable header or stream is a hard error.
func (n *Normalizer) Normalize(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	result := &Result{Listings: &Internships{}}
	seen := make(map[string]bool)
	line := 1

	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(n.logger, &RecordError{Line: line, Reason: fmt.Sprintf("malformed csv row: %v", err)})
			continue
		}

		record, err := decodeRow(header, row)
		if err != nil {
			result.skip(n.logger, &RecordError{Line: line, Reason: fmt.Sprintf("decode row: %v", err)})
			continue
		}

		if reason := validate(record); reason != "" {
			result.skip(n.logger, &RecordError{Line: line, ID: record.ID, Reason: reason})
			continue
		}

		if seen[record.ID] {
			result.skip(n.logger, &RecordError{Line: line, ID: record.ID, Reason: "duplicate internship id"})
			continue
		}
		seen[record.ID] = true

		result.Listings.Items = append(result.Listings.Items, coerce(record))
	}

	if n.logger != nil {
		n.logger.Info("catalog normalized",
			zap.Int("accepted", result.Listings.Len()),
			zap.Int("skipped", len(result.Skipped)),
		)
	}

	return result, nil
}

func (r *Result) skip(logger *zap.Logger, recErr *RecordError) {
	r.Skipped = append(r.Skipped, recErr)
	if logger != nil {
		logger.Warn("skipping catalog record",
			zap.Int("line", recErr.Line),
			zap.String("internship_id", recErr.ID),
			zap.String("reason", recErr.Reason),
		)
	}
}

func decodeRow(header, row []string) (*rawRecord, error) {
	values := make(map[string]string, len(header))
	for i, col := range header {
		if i >= len(row) {
			break
		}
		values[col] = strings.TrimSpace(row[i])
	}

	var record rawRecord
	cfg := &mapstructure.DecoderConfig{
		Result:  &record,
		TagName: "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, err
	}

	return &record, nil
}

func validate(record *rawRecord) string {
	switch {
	case record.ID == "":
		return "missing internship_id"
	case record.Title == "":
		return "missing title"
	case record.Description == "":
		return "missing description"
	}
	return ""
}

func coerce(record *rawRecord) *Internship {
	return &Internship{
		ID:                          record.ID,
		Title:                       record.Title,
		Organization:                record.Organization,
		SectorTags:                  SplitSet(record.SectorTags),
		Description:                 record.Description,
		Responsibilities:            record.Responsibilities,
		RequiredQualifications:      record.RequiredQualifications,
		PreferredSkills:             SplitSet(record.PreferredSkills),
		Stipend:                     normalizeStipend(record.Stipend),
		Location:                    Location{City: record.LocationCity, District: record.LocationDistrict, State: record.LocationState},
		RemoteAllowed:               coerceBool(record.RemoteAllowed),
		DurationWeeks:               coerceInt(record.DurationWeeks),
		StartDate:                   record.StartDate,
		ApplicationDeadline:         record.ApplicationDeadline,
		EligibilityMinQualification: strings.ToLower(record.EligibilityMinQualification),
		URL:                         record.URL,
		PostedDate:                  record.PostedDate,
	}
}

// SplitSet turns a comma-separated field into a normalized set: lowercased,
// trimmed, empty entries and duplicates dropped, insertion order kept.
func SplitSet(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

func coerceBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}

// coerceInt parses duration-like fields. Unparseable values become the zero
// sentinel instead of failing the row.
func coerceInt(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// normalizeStipend keeps the raw stipend text but collapses unknown-ish
// values to the empty sentinel.
func normalizeStipend(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "0", "na", "n/a", "unpaid", "nil":
		return ""
	}
	return value
}
