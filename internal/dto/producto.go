package dto

import (
	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductoDTO is the transfer shape for productos / Forme de transfert des produits
type ProductoDTO struct {
	BaseDTO
	Descripcion *string         `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
}

// ProductoPartialDTO carries only the fields to change / Ne transporte que les champs à modifier
type ProductoPartialDTO struct {
	ID          int64            `json:"id"`
	Nombre      *string          `json:"nombre,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
}

// StockRequest sets stock in place / Définit le stock sur place
type StockRequest struct {
	Stock int `json:"stock"`
}

// ProductoToDTO converts domain.Producto to ProductoDTO / Convertit domain.Producto en ProductoDTO
func ProductoToDTO(p *domain.Producto) *ProductoDTO {
	if p == nil {
		return nil
	}
	return &ProductoDTO{
		BaseDTO: BaseDTO{
			ID:       p.ID,
			Nombre:   p.Nombre,
			CreateAt: p.CreatedAt,
			UpdateAt: p.UpdatedAt,
		},
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
	}
}

// ProductoFromDTO converts ProductoDTO to a new domain.Producto, ignoring audit fields
// Convertit ProductoDTO en domain.Producto en ignorant les champs d'audit
func ProductoFromDTO(d *ProductoDTO) *domain.Producto {
	p := domain.NewProducto(d.Nombre, d.Descripcion, d.Precio, d.Stock)
	p.ID = d.ID
	return p
}

// ProductosToDTO converts a slice / Convertit une slice
func ProductosToDTO(ps []*domain.Producto) []*ProductoDTO {
	out := make([]*ProductoDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProductoToDTO(p))
	}
	return out
}

// MergeProducto applies the non-nil fields of d to p / Applique les champs non nuls de d à p
func MergeProducto(p *domain.Producto, d *ProductoPartialDTO) {
	if d.Nombre != nil {
		p.Nombre = *d.Nombre
	}
	if d.Descripcion != nil {
		p.Descripcion = d.Descripcion
	}
	if d.Precio != nil {
		p.Precio = domain.RoundPrecio(*d.Precio)
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
}
