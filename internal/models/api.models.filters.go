package models

import "time"

// ReadingFilters defines the query options for the water-level chart.
// Field names map to URL query parameters via gorilla/schema.
type ReadingFilters struct {
	StartDate *time.Time `schema:"start_date"`
	EndDate   *time.Time `schema:"end_date"`
	Limit     int        `schema:"limit"`
}

// Ranged reports whether an explicit date bound was supplied. A ranged
// query returns its full contents; the point cap applies only otherwise.
func (f ReadingFilters) Ranged() bool {
	return f.StartDate != nil || f.EndDate != nil
}
