// internal/domain/entity/session.go
package entity

import "time"

// Session holds the files one user is working with. It lives in memory only.
type Session struct {
	ID string

	Patterns     *Table
	PatternsName string

	Aggregation  *AggregationResult
	ProductsName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a shallow copy; tables are immutable so they can be shared.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
