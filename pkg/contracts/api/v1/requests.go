// Package api contains the HTTP contract of the export service.
// Version v1 represents the current stable API version.
package api

import (
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// ExportRequest documents the query parameters accepted by GET /export.
// Every filter value is a comma-separated list; repeated parameters add
// further entries.
type ExportRequest struct {
	District         string `json:"district,omitempty" query:"district"`
	Block            string `json:"block,omitempty" query:"block"`
	Cluster          string `json:"cluster,omitempty" query:"cluster"`
	SchoolManagement string `json:"school_management,omitempty" query:"school_management"`
	Geography        string `json:"geography,omitempty" query:"geography"`
	SchoolType       string `json:"school_type,omitempty" query:"school_type" example:"HS,HSS"`
	Format           string `json:"format,omitempty" query:"format" example:"csv"`
	APIKey           string `json:"-" query:"apikey"`
}

// ExportResponse is the JSON body returned for format=json
type ExportResponse []domain.ExportRow

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Time   string `json:"time" example:"2025-06-01T08:30:00Z"`
}
