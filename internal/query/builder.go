package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Query is parameterized SQL text plus its positional arguments
type Query struct {
	Text string
	Args []any
}

// Tables describes where the snapshot tables live. Values are substituted
// into the query text and must be plain SQL identifiers.
type Tables struct {
	CoreSchema string
	RefSchema  string
	Session    string
}

// DefaultTables returns the production table layout
func DefaultTables() Tables {
	return Tables{
		CoreSchema: "core_db",
		RefSchema:  "ref_db",
		Session:    "2025_2026",
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsIdentifier reports whether s is safe to embed as an SQL identifier part.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// Validate checks every table component is a plain identifier
func (t Tables) Validate() error {
	parts := map[string]string{
		"core schema": t.CoreSchema,
		"ref schema":  t.RefSchema,
		"session":     t.Session,
	}
	for name, v := range parts {
		if !IsIdentifier(v) {
			return fmt.Errorf("invalid %s %q: must match [A-Za-z0-9_]+", name, v)
		}
	}
	return nil
}

// predicate is one IN restriction on a result column
type predicate struct {
	column string
	values []any
}

func (p predicate) render() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(p.values)), ", ")
	return fmt.Sprintf("%s IN (%s)", p.column, placeholders)
}

// textFilterColumns maps text filters to the column they restrict, in
// parameter order. Geography is recognized but has no column.
var textFilterColumns = []struct {
	key    FilterKey
	column string
}{
	{FilterDistrict, "d.district_name"},
	{FilterBlock, "b.block"},
	{FilterCluster, "c.cluster"},
	{FilterSchoolManagement, "sm.school_management"},
}

const schoolTypeColumn = "s.school_assam_category_id"

// Builder assembles the daily export query. It holds no mutable state and
// is safe for concurrent use.
type Builder struct {
	base string
}

// NewBuilder creates a builder for the given table layout
func NewBuilder(tables Tables) (*Builder, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Builder{base: baseQuery(tables)}, nil
}

var defaultBuilder = mustBuilder(DefaultTables())

func mustBuilder(t Tables) *Builder {
	b, err := NewBuilder(t)
	if err != nil {
		panic(err)
	}
	return b
}

// BuildQuery builds the export query for a raw filter map using the
// default table layout.
func BuildQuery(raw map[string]string) Query {
	return defaultBuilder.Build(NewFilterRequest(raw))
}

// Build renders the export query for req. Filter values only ever appear in
// Args, never in Text.
func (b *Builder) Build(req FilterRequest) Query {
	preds := predicates(req)

	var sb strings.Builder
	sb.WriteString(b.base)

	args := make([]any, 0)
	for _, p := range preds {
		sb.WriteString("\n  AND ")
		sb.WriteString(p.render())
		args = append(args, p.values...)
	}
	sb.WriteString("\nORDER BY s.district_id, s.block_id, s.cluster_id, s.udise_id")

	return Query{Text: sb.String(), Args: args}
}

func predicates(req FilterRequest) []predicate {
	var preds []predicate
	for _, f := range textFilterColumns {
		values := req.Values(f.key)
		if len(values) == 0 {
			continue
		}
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v
		}
		preds = append(preds, predicate{column: f.column, values: args})
	}

	if codes := SchoolTypeCodes(req.SchoolType); len(codes) > 0 {
		args := make([]any, len(codes))
		for i, c := range codes {
			args[i] = c
		}
		preds = append(preds, predicate{column: schoolTypeColumn, values: args})
	}
	return preds
}

func baseQuery(t Tables) string {
	core, ref, session := t.CoreSchema, t.RefSchema, t.Session
	return fmt.Sprintf(`SELECT
  d.district_name AS district,
  b.block AS block,
  c.cluster AS cluster,
  s.udise_id AS udise_id,
  s.school_name AS school_name,
  sm.school_management AS school_management,
  CASE s.school_assam_category_id
    WHEN 1 THEN 'LP'
    WHEN 2 THEN 'UP'
    WHEN 3 THEN 'HS'
    WHEN 4 THEN 'HSS'
    ELSE NULL
  END AS school_category,
  IFNULL(st.total_students, 0) AS total_students,
  IFNULL(st.total_students_present, 0) AS total_students_present,
  IFNULL(sf.total_teaching_staff, 0) AS total_teaching_staff,
  IFNULL(sf.total_non_teaching_staff, 0) AS total_non_teaching_staff,
  IFNULL(sf.total_teaching_staff_present, 0) AS total_teaching_staff_present,
  IFNULL(sf.total_non_teaching_staff_present, 0) AS total_non_teaching_staff_present
FROM %[1]s.tbl_rp_school_registration_%[3]s s
LEFT JOIN %[2]s.district d ON s.district_id = d.district_id
LEFT JOIN %[2]s.blocks b ON s.block_id = b.block_id
LEFT JOIN %[2]s.cluster c ON s.cluster_id = c.cluster_id
LEFT JOIN %[2]s.school_management sm ON s.school_management_id = sm.school_management_id
LEFT JOIN (
  SELECT
    s.udise_id,
    IFNULL(SUM(registered_students), 0) AS total_students,
    IFNULL(SUM(present), 0) AS total_students_present
  FROM %[1]s.tbl_rp_students_summery_today_%[3]s s
  WHERE s.report_date = CURDATE()
  GROUP BY s.udise_id
) st ON s.udise_id = st.udise_id
LEFT JOIN (
  SELECT
    s.udise_id,
    IFNULL(SUM(CASE WHEN staff_type_id = 1 THEN total_staff END), 0) AS total_teaching_staff,
    IFNULL(SUM(CASE WHEN staff_type_id != 1 THEN total_staff END), 0) AS total_non_teaching_staff,
    IFNULL(SUM(CASE WHEN staff_type_id = 1 THEN present END), 0) AS total_teaching_staff_present,
    IFNULL(SUM(CASE WHEN staff_type_id != 1 THEN present END), 0) AS total_non_teaching_staff_present
  FROM %[1]s.tbl_rp_staff_registration_%[3]s s
  WHERE s.report_date = CURDATE()
  GROUP BY s.udise_id
) sf ON s.udise_id = sf.udise_id
WHERE s.report_date = CURDATE()`, core, ref, session)
}
