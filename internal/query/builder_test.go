package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitValues(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"single", []string{"Kamrup"}, []string{"Kamrup"}},
		{"trims and drops blanks", []string{" a , ,b,"}, []string{"a", "b"}},
		{"dedupes keeping first", []string{"a,b,a,c,b"}, []string{"a", "b", "c"}},
		{"all blank", []string{" , ,"}, nil},
		{"empty", []string{""}, nil},
		{"repeated params", []string{"a,b", "c", "a"}, []string{"a", "b", "c"}},
		{"case sensitive", []string{"HS,hs"}, []string{"HS", "hs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitValues(tt.raw...))
		})
	}
}

func TestSchoolTypeCodes(t *testing.T) {
	assert.Equal(t, []int{1, 2}, SchoolTypeCodes([]string{"LP", "UP", "XX"}))
	assert.Equal(t, []int{4, 3}, SchoolTypeCodes([]string{"HSS", "HS"}))
	assert.Nil(t, SchoolTypeCodes([]string{"ZZ", "lp"}))
}

func TestBuildQueryNoFilters(t *testing.T) {
	q := BuildQuery(map[string]string{})

	assert.Empty(t, q.Args)
	assert.NotContains(t, q.Text, " IN (")
	assert.Contains(t, q.Text, "WHERE s.report_date = CURDATE()")
	assert.True(t, strings.HasSuffix(q.Text, "ORDER BY s.district_id, s.block_id, s.cluster_id, s.udise_id"))
	assert.Contains(t, q.Text, "FROM core_db.tbl_rp_school_registration_2025_2026 s")
	assert.Contains(t, q.Text, "LEFT JOIN ref_db.district d ON s.district_id = d.district_id")
}

func TestBuildQueryDistrictDedup(t *testing.T) {
	q := BuildQuery(map[string]string{"district": "A, B,,A"})

	assert.Equal(t, []any{"A", "B"}, q.Args)
	assert.Contains(t, q.Text, "d.district_name IN (?, ?)")
}

func TestBuildQuerySchoolType(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantArgs []any
		wantPred bool
	}{
		{"mapped and unmapped", "LP,UP,XX", []any{1, 2}, true},
		{"only unmapped", "ZZ", []any{}, false},
		{"blank", " , ", []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildQuery(map[string]string{"school_type": tt.raw})
			assert.Equal(t, tt.wantArgs, q.Args)
			assert.Equal(t, tt.wantPred, strings.Contains(q.Text, "s.school_assam_category_id IN ("))
		})
	}
}

func TestBuildQueryParameterOrder(t *testing.T) {
	q := BuildQuery(map[string]string{
		"school_type":       "HS,HSS",
		"school_management": "Govt",
		"cluster":           "C1",
		"block":             "B1,B2",
		"district":          "Kamrup,Nalbari",
	})

	assert.Equal(t, []any{"Kamrup", "Nalbari", "B1", "B2", "C1", "Govt", 3, 4}, q.Args)

	order := []string{
		"d.district_name IN (?, ?)",
		"b.block IN (?, ?)",
		"c.cluster IN (?)",
		"sm.school_management IN (?)",
		"s.school_assam_category_id IN (?, ?)",
	}
	last := -1
	for _, frag := range order {
		idx := strings.Index(q.Text, frag)
		require.NotEqual(t, -1, idx, frag)
		assert.Greater(t, idx, last, "predicate %q out of order", frag)
		last = idx
	}
	assert.Less(t, last, strings.Index(q.Text, "ORDER BY"))
}

func TestBuildQueryPlaceholderCountMatchesArgs(t *testing.T) {
	q := BuildQuery(map[string]string{
		"district":    "Kamrup,Nalbari",
		"school_type": "HS,HSS",
	})

	assert.Equal(t, []any{"Kamrup", "Nalbari", 3, 4}, q.Args)
	assert.Equal(t, len(q.Args), strings.Count(q.Text, "?"))
	assert.Contains(t, q.Text, "WHERE s.report_date = CURDATE()\n  AND d.district_name IN (?, ?)\n  AND s.school_assam_category_id IN (?, ?)")
}

func TestBuildQueryNeverInterpolatesValues(t *testing.T) {
	hostile := "x') OR 1=1 --"
	q := BuildQuery(map[string]string{"district": hostile, "cluster": "`; DROP TABLE s;"})

	assert.NotContains(t, q.Text, hostile)
	assert.NotContains(t, q.Text, "DROP TABLE")
	assert.Equal(t, []any{hostile, "`; DROP TABLE s;"}, q.Args)
}

func TestBuildQueryGeographyIsNoop(t *testing.T) {
	with := BuildQuery(map[string]string{"geography": "Rural"})
	without := BuildQuery(map[string]string{})

	assert.Equal(t, without, with)
}

func TestBuildQueryIgnoresUnknownKeys(t *testing.T) {
	q := BuildQuery(map[string]string{"format": "json", "apikey": "k", "foo": "bar"})
	assert.Empty(t, q.Args)
}

func TestNewBuilderCustomTables(t *testing.T) {
	b, err := NewBuilder(Tables{CoreSchema: "core_stage", RefSchema: "ref_stage", Session: "2026_2027"})
	require.NoError(t, err)

	q := b.Build(FilterRequest{})
	assert.Contains(t, q.Text, "core_stage.tbl_rp_school_registration_2026_2027 s")
	assert.Contains(t, q.Text, "core_stage.tbl_rp_students_summery_today_2026_2027 s")
	assert.Contains(t, q.Text, "core_stage.tbl_rp_staff_registration_2026_2027 s")
	assert.Contains(t, q.Text, "ref_stage.school_management sm")
}

func TestNewBuilderRejectsBadIdentifiers(t *testing.T) {
	tests := []struct {
		name   string
		tables Tables
	}{
		{"empty core", Tables{CoreSchema: "", RefSchema: "ref", Session: "1"}},
		{"dotted ref", Tables{CoreSchema: "core", RefSchema: "ref.x", Session: "1"}},
		{"injection session", Tables{CoreSchema: "core", RefSchema: "ref", Session: "1 s; DROP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(tt.tables)
			assert.Error(t, err)
		})
	}
}

func TestFilterRequestFromValues(t *testing.T) {
	values := url.Values{
		"district":    []string{"Kamrup", "Nalbari,Kamrup"},
		"school_type": []string{"HS"},
		"format":      []string{"json"},
	}

	req := FilterRequestFromValues(values)
	assert.Equal(t, []string{"Kamrup", "Nalbari"}, req.District)
	assert.Equal(t, []string{"HS"}, req.SchoolType)
	assert.False(t, req.Present(FilterBlock))
	assert.Equal(t, 2, req.ActiveCount())
}
