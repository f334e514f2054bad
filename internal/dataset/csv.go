// Package dataset parses uploaded member tables and serialises the
// in-memory table back out. CSV is the canonical format; Excel uploads are
// converted to the same record shape before parsing.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/risk"
	"github.com/amtamaddon/analytics.simlane.ai/internal/segment"
)

// Column names of the canonical table schema, in export order.
var columns = []string{
	"member_id",
	"group_id",
	"enrollment_date",
	"tenure_days",
	"virtual_care_visits",
	"in_person_visits",
	"lifetime_value",
	"estimated_days_to_churn",
	"risk_score",
	"risk_category",
	"segment",
}

// Columns required in every upload. The rest are derived or defaulted.
var requiredColumns = []string{
	"member_id",
	"group_id",
	"enrollment_date",
	"estimated_days_to_churn",
}

var (
	// ErrMissingColumn indicates an upload lacks a required column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrEmptyDataset indicates an upload contains no member rows.
	ErrEmptyDataset = errors.New("dataset contains no member rows")
)

const dateLayout = "2006-01-02"

// Codec decodes uploads into member records and encodes the table as CSV.
// Risk categories and segments are always recomputed on ingest so the
// derived-field invariants hold regardless of what the upload claims.
type Codec struct {
	thresholds risk.Thresholds
	now        func() time.Time
}

// NewCodec builds a Codec classifying against the provided thresholds.
func NewCodec(t risk.Thresholds) *Codec {
	return &Codec{thresholds: t, now: time.Now}
}

// WithClock overrides the wall clock used to derive tenure.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// DecodeCSV parses a CSV upload into member records.
func (c *Codec) DecodeCSV(r io.Reader) ([]domain.Member, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return c.decodeRecords(records)
}

// decodeRecords turns a header row plus data rows into member records.
func (c *Codec) decodeRecords(records [][]string) ([]domain.Member, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	mapping, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	today := c.now().UTC().Truncate(24 * time.Hour)
	members := make([]domain.Member, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		line := i + 2 // 1-based, after the header
		member, err := c.decodeRow(row, mapping, today)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if _, dup := seen[member.ID]; dup {
			return nil, fmt.Errorf("row %d: duplicate member_id %q", line, member.ID)
		}
		seen[member.ID] = struct{}{}
		members = append(members, member)
	}

	return members, nil
}

func (c *Codec) decodeRow(row []string, mapping map[string]int, today time.Time) (domain.Member, error) {
	field := func(name string) string {
		idx, ok := mapping[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	id := field("member_id")
	if id == "" {
		return domain.Member{}, errors.New("member_id is empty")
	}
	groupID := field("group_id")
	if groupID == "" {
		return domain.Member{}, errors.New("group_id is empty")
	}

	enrollment, err := parseDate(field("enrollment_date"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("enrollment_date: %w", err)
	}

	days, err := parseNonNegativeInt(field("estimated_days_to_churn"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("estimated_days_to_churn: %w", err)
	}

	tenure := int(today.Sub(enrollment).Hours() / 24)
	if raw := field("tenure_days"); raw != "" {
		tenure, err = parseNonNegativeInt(raw)
		if err != nil {
			return domain.Member{}, fmt.Errorf("tenure_days: %w", err)
		}
	}
	if tenure < 0 {
		return domain.Member{}, fmt.Errorf("enrollment_date %s is in the future", enrollment.Format(dateLayout))
	}

	virtual, err := parseOptionalInt(field("virtual_care_visits"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("virtual_care_visits: %w", err)
	}
	inPerson, err := parseOptionalInt(field("in_person_visits"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("in_person_visits: %w", err)
	}
	lifetimeValue, err := parseOptionalFloat(field("lifetime_value"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("lifetime_value: %w", err)
	}
	score, err := parseOptionalFloat(field("risk_score"))
	if err != nil {
		return domain.Member{}, fmt.Errorf("risk_score: %w", err)
	}

	member := domain.Member{
		ID:                   id,
		GroupID:              groupID,
		EnrollmentDate:       enrollment,
		TenureDays:           tenure,
		VirtualCareVisits:    virtual,
		InPersonVisits:       inPerson,
		LifetimeValue:        lifetimeValue,
		EstimatedDaysToChurn: days,
		RiskScore:            score,
		RiskCategory:         c.thresholds.Classify(days),
	}
	member.Segment = segment.Assign(member)
	return member, nil
}

// EncodeCSV writes the table using the canonical column order.
func EncodeCSV(w io.Writer, members []domain.Member) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range members {
		row := []string{
			m.ID,
			m.GroupID,
			m.EnrollmentDate.Format(dateLayout),
			strconv.Itoa(m.TenureDays),
			strconv.Itoa(m.VirtualCareVisits),
			strconv.Itoa(m.InPersonVisits),
			strconv.FormatFloat(m.LifetimeValue, 'f', 2, 64),
			strconv.Itoa(m.EstimatedDaysToChurn),
			strconv.FormatFloat(m.RiskScore, 'f', 4, 64),
			string(m.RiskCategory),
			string(m.Segment),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for member %s: %w", m.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// mapHeader resolves each schema column to an index in the uploaded header.
// Matching tolerates case, spacing, and partial names so files exported from
// spreadsheets map without manual intervention.
func mapHeader(header []string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeColumn(h)
	}

	mapping := make(map[string]int, len(columns))
	for _, col := range columns {
		want := normalizeColumn(col)
		idx := -1
		for i, h := range normalized {
			if h == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			// Fall back to substring matching in either direction.
			for i, h := range normalized {
				if h == "" {
					continue
				}
				if strings.Contains(h, want) || strings.Contains(want, h) {
					idx = i
					break
				}
			}
		}
		if idx >= 0 {
			mapping[col] = idx
		}
	}

	for _, col := range requiredColumns {
		if _, ok := mapping[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return mapping, nil
}

// normalizeColumn strips everything but letters and digits and lowercases
// the rest, so "Member ID" and "member_id" compare equal.
func normalizeColumn(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("value is empty")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func parseNonNegativeInt(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("value is empty")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Spreadsheet exports often render integers as floats.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid integer %q", raw)
		}
		v = int(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return parseNonNegativeInt(raw)
}

func parseOptionalFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %f", v)
	}
	return v, nil
}
