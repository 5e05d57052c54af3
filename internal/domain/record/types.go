// Package record defines the maps and entities tables of the Beisman
// records system and the store interfaces over them.
package record

import (
	"errors"
	"time"
)

// Map is a single map record. Number is the primary key; values like "003-A"
// are valid, so it is a string, not an integer.
type Map struct {
	Number          string     `json:"Number"`
	Drawer          string     `json:"Drawer"`
	PropertyDetails string     `json:"PropertyDetails"`
	CreatedDate     *time.Time `json:"CreatedDate,omitempty"`
	ModifiedDate    *time.Time `json:"ModifiedDate,omitempty"`
}

// MapUpdate carries a partial update; nil fields are left untouched.
type MapUpdate struct {
	Drawer          *string
	PropertyDetails *string
}

// Entity is a party associated with a map. BeismanNumber references
// Map.Number.
type Entity struct {
	EntityID      int64      `json:"EntityID"`
	EntityName    string     `json:"EntityName"`
	BeismanNumber string     `json:"BeismanNumber"`
	CreatedDate   *time.Time `json:"CreatedDate,omitempty"`
}

// ListParams selects a page of records with an optional search term.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

// Normalize clamps paging parameters to sane bounds.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > 1000 {
		p.PageSize = 1000
	}
}

// Offset returns the row offset for the selected page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageMeta describes where a page sits within the full result set.
type PageMeta struct {
	TotalCount  int  `json:"total_count"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPageMeta computes page metadata for a result set of total rows.
func NewPageMeta(total, page, pageSize int) PageMeta {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert collides with an existing
// primary key.
var ErrDuplicate = errors.New("record already exists")
