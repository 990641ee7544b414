package dto

import "time"

// BaseDTO mirrors identity and audit fields on the wire / Reflète les champs d'identité et d'audit
//
// CreateAt is filled from the entity CreatedAt and UpdateAt from UpdatedAt.
// DeleteAt is kept for wire compatibility and is always nil on output: rows are
// hard-deleted, so no deletion timestamp exists. Audit fields sent by callers are ignored.
type BaseDTO struct {
	ID       int64      `json:"id"`
	Nombre   string     `json:"nombre"`
	CreateAt time.Time  `json:"createAt"`
	UpdateAt *time.Time `json:"updateAt,omitempty"`
	DeleteAt *time.Time `json:"deleteAt,omitempty"`
}

// Page is a paginated result / Résultat paginé
type Page[D any] struct {
	Items      []D `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// TotalPages returns the number of pages / Retourne le nombre de pages
func (p Page[D]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// ActiveRequest toggles activation / Bascule l'activation
type ActiveRequest struct {
	IsActive bool `json:"isActive"`
}
