package domain

import (
	"strconv"
)

// ExportRow is one school's aggregated attendance snapshot for the current
// report date. It is the single row shape produced by the store and consumed
// by every exporter, whichever filters were applied.
//
// Field declaration order is the canonical column order for CSV, JSON and
// XLSX output. Text fields sourced from LEFT JOINed reference tables are
// nullable; numeric totals are never null and default to 0 when no
// aggregation row matched the school.
type ExportRow struct {
	// === SCHOOL IDENTITY ===

	// District is the district name, nil when the school has no district match
	District *string `json:"district" csv:"district"`

	// Block is the block name, nil when unmatched
	Block *string `json:"block" csv:"block"`

	// Cluster is the cluster name, nil when unmatched
	Cluster *string `json:"cluster" csv:"cluster"`

	// UdiseID is the national school identifier
	UdiseID *string `json:"udise_id" csv:"udise_id"`

	// SchoolName is the registered school name
	SchoolName *string `json:"school_name" csv:"school_name"`

	// SchoolManagement is the management body label
	SchoolManagement *string `json:"school_management" csv:"school_management"`

	// SchoolCategory is one of LP, UP, HS, HSS or nil
	SchoolCategory *SchoolCategory `json:"school_category" csv:"school_category"`

	// === STUDENT TOTALS ===

	TotalStudents        int64 `json:"total_students" csv:"total_students"`
	TotalStudentsPresent int64 `json:"total_students_present" csv:"total_students_present"`

	// === STAFF TOTALS ===

	TotalTeachingStaff           int64 `json:"total_teaching_staff" csv:"total_teaching_staff"`
	TotalNonTeachingStaff        int64 `json:"total_non_teaching_staff" csv:"total_non_teaching_staff"`
	TotalTeachingStaffPresent    int64 `json:"total_teaching_staff_present" csv:"total_teaching_staff_present"`
	TotalNonTeachingStaffPresent int64 `json:"total_non_teaching_staff_present" csv:"total_non_teaching_staff_present"`
}

// ExportColumns lists the canonical column names in output order.
var ExportColumns = []string{
	"district",
	"block",
	"cluster",
	"udise_id",
	"school_name",
	"school_management",
	"school_category",
	"total_students",
	"total_students_present",
	"total_teaching_staff",
	"total_non_teaching_staff",
	"total_teaching_staff_present",
	"total_non_teaching_staff_present",
}

// NumericColumnStart is the index of the first numeric column in ExportColumns.
const NumericColumnStart = 7

// Values returns the row as display strings in ExportColumns order.
// Null text renders as the empty string.
func (r ExportRow) Values() []string {
	category := ""
	if r.SchoolCategory != nil {
		category = string(*r.SchoolCategory)
	}
	return []string{
		deref(r.District),
		deref(r.Block),
		deref(r.Cluster),
		deref(r.UdiseID),
		deref(r.SchoolName),
		deref(r.SchoolManagement),
		category,
		strconv.FormatInt(r.TotalStudents, 10),
		strconv.FormatInt(r.TotalStudentsPresent, 10),
		strconv.FormatInt(r.TotalTeachingStaff, 10),
		strconv.FormatInt(r.TotalNonTeachingStaff, 10),
		strconv.FormatInt(r.TotalTeachingStaffPresent, 10),
		strconv.FormatInt(r.TotalNonTeachingStaffPresent, 10),
	}
}

// Totals returns the numeric columns in ExportColumns order.
func (r ExportRow) Totals() []int64 {
	return []int64{
		r.TotalStudents,
		r.TotalStudentsPresent,
		r.TotalTeachingStaff,
		r.TotalNonTeachingStaff,
		r.TotalTeachingStaffPresent,
		r.TotalNonTeachingStaffPresent,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// SchoolCategory is the derived school level label
type SchoolCategory string

const (
	SchoolCategoryLP  SchoolCategory = "LP"
	SchoolCategoryUP  SchoolCategory = "UP"
	SchoolCategoryHS  SchoolCategory = "HS"
	SchoolCategoryHSS SchoolCategory = "HSS"
)

// IsValid reports whether c is one of the four known categories
func (c SchoolCategory) IsValid() bool {
	switch c {
	case SchoolCategoryLP, SchoolCategoryUP, SchoolCategoryHS, SchoolCategoryHSS:
		return true
	}
	return false
}

// ParseSchoolCategory converts a database label into a category.
// Anything other than the four known labels yields nil.
func ParseSchoolCategory(label string) *SchoolCategory {
	c := SchoolCategory(label)
	if !c.IsValid() {
		return nil
	}
	return &c
}
