// Package query turns export filter input into the daily aggregation query.
//
// Raw filter values are comma-separated lists. They are normalized into a
// FilterRequest and rendered by a Builder as IN predicates over bound
// placeholders, in the fixed order district, block, cluster,
// school_management, school_type. The geography filter is accepted but
// restricts nothing because the schema has no geography dimension.
package query
