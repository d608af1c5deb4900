package testutil

import (
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// SampleExportRows returns two rows: a fully populated Kamrup HS school and
// a Nalbari HSS school with unmatched reference data and no attendance.
func SampleExportRows() []domain.ExportRow {
	hs := domain.SchoolCategoryHS
	hss := domain.SchoolCategoryHSS
	return []domain.ExportRow{
		{
			District:                     domain.StringPtr("Kamrup"),
			Block:                        domain.StringPtr("Rangia"),
			Cluster:                      domain.StringPtr("C1"),
			UdiseID:                      domain.StringPtr("18010101"),
			SchoolName:                   domain.StringPtr("Rangia Govt HS"),
			SchoolManagement:             domain.StringPtr("Govt"),
			SchoolCategory:               &hs,
			TotalStudents:                120,
			TotalStudentsPresent:         97,
			TotalTeachingStaff:           8,
			TotalNonTeachingStaff:        2,
			TotalTeachingStaffPresent:    7,
			TotalNonTeachingStaffPresent: 1,
		},
		{
			District:       domain.StringPtr("Nalbari"),
			UdiseID:        domain.StringPtr("18020202"),
			SchoolName:     domain.StringPtr("Nalbari HSS"),
			SchoolCategory: &hss,
		},
	}
}
