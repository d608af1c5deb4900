package query

import (
	"net/url"
	"strings"
)

// FilterKey names a recognized export filter
type FilterKey string

const (
	FilterDistrict         FilterKey = "district"
	FilterBlock            FilterKey = "block"
	FilterCluster          FilterKey = "cluster"
	FilterSchoolManagement FilterKey = "school_management"
	FilterGeography        FilterKey = "geography"
	FilterSchoolType       FilterKey = "school_type"
)

// FilterKeys lists every recognized key in predicate order.
var FilterKeys = []FilterKey{
	FilterDistrict,
	FilterBlock,
	FilterCluster,
	FilterSchoolManagement,
	FilterGeography,
	FilterSchoolType,
}

// FilterRequest holds the normalized value list of each recognized filter.
// A nil or empty list means the filter is absent.
type FilterRequest struct {
	District         []string
	Block            []string
	Cluster          []string
	SchoolManagement []string
	Geography        []string
	SchoolType       []string
}

// NewFilterRequest builds a FilterRequest from a raw key/value map.
// Unrecognized keys are ignored.
func NewFilterRequest(raw map[string]string) FilterRequest {
	var req FilterRequest
	for _, key := range FilterKeys {
		if v, ok := raw[string(key)]; ok {
			req.set(key, SplitValues(v))
		}
	}
	return req
}

// FilterRequestFromValues builds a FilterRequest from URL query values.
// Repeated parameters contribute additional list entries in order.
func FilterRequestFromValues(values url.Values) FilterRequest {
	var req FilterRequest
	for _, key := range FilterKeys {
		if v, ok := values[string(key)]; ok {
			req.set(key, SplitValues(v...))
		}
	}
	return req
}

func (r *FilterRequest) set(key FilterKey, values []string) {
	switch key {
	case FilterDistrict:
		r.District = values
	case FilterBlock:
		r.Block = values
	case FilterCluster:
		r.Cluster = values
	case FilterSchoolManagement:
		r.SchoolManagement = values
	case FilterGeography:
		r.Geography = values
	case FilterSchoolType:
		r.SchoolType = values
	}
}

// Values returns the normalized list for key.
func (r FilterRequest) Values(key FilterKey) []string {
	switch key {
	case FilterDistrict:
		return r.District
	case FilterBlock:
		return r.Block
	case FilterCluster:
		return r.Cluster
	case FilterSchoolManagement:
		return r.SchoolManagement
	case FilterGeography:
		return r.Geography
	case FilterSchoolType:
		return r.SchoolType
	}
	return nil
}

// Present reports whether key carries at least one value.
func (r FilterRequest) Present(key FilterKey) bool {
	return len(r.Values(key)) > 0
}

// ActiveCount returns the number of filters carrying values.
func (r FilterRequest) ActiveCount() int {
	n := 0
	for _, key := range FilterKeys {
		if r.Present(key) {
			n++
		}
	}
	return n
}

// SplitValues splits each raw value on commas, trims whitespace, drops
// empty segments and duplicates, and keeps first-occurrence order.
// It returns nil when nothing survives.
func SplitValues(raw ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			v := strings.TrimSpace(part)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// schoolTypeCodes maps school type tokens to category ids. Matching is
// case-sensitive.
var schoolTypeCodes = map[string]int{
	"LP":  1,
	"UP":  2,
	"HS":  3,
	"HSS": 4,
}

// SchoolTypeCodes maps tokens through the school type table, dropping
// unknown tokens. Order follows the input.
func SchoolTypeCodes(tokens []string) []int {
	var codes []int
	for _, t := range tokens {
		if code, ok := schoolTypeCodes[t]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}
