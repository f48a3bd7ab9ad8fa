// Package crm provides read-only structured query access to the CRM.
// The client is an optional capability: when absent, CRM-dependent filters
// and grounding context are skipped, never errored.
package crm

import "context"

// Record is one row of a query result. Nested relationship fields arrive as
// nested maps (e.g. Owner.Name).
type Record map[string]any

// QueryResult is the decoded response of one structured query.
type QueryResult struct {
	TotalSize int      `json:"totalSize"`
	Records   []Record `json:"records"`
}

// Client executes SOQL-style read queries. Implementations must be safe for
// concurrent use.
type Client interface {
	Query(ctx context.Context, soql string) (*QueryResult, error)
}

// StringField extracts a string field from a record, tolerating absence.
func (r Record) StringField(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// FloatField extracts a numeric field from a record. JSON numbers decode as
// float64.
func (r Record) FloatField(name string) float64 {
	if v, ok := r[name].(float64); ok {
		return v
	}
	return 0
}

// NestedStringField extracts a field from a nested relationship record,
// e.g. NestedStringField("Owner", "Name").
func (r Record) NestedStringField(parent, name string) string {
	nested, ok := r[parent].(map[string]any)
	if !ok {
		return ""
	}
	if v, ok := nested[name].(string); ok {
		return v
	}
	return ""
}
