package domain

import "github.com/shopspring/decimal"

// Column limits for productos / Limites des colonnes produits
const (
	ProductoNombreMax      = 150
	ProductoDescripcionMax = 500
	PrecioScale            = 2
)

// Producto represents a catalog product / Représente un produit du catalogue
type Producto struct {
	BaseEntity
	Nombre      string // Unique / Unique
	Descripcion *string
	Precio      decimal.Decimal // Fixed-point, scale 2 / Virgule fixe, échelle 2
	Stock       int
}

// NewProducto creates an active producto with its price rounded to scale 2 / Crée un produit actif
func NewProducto(nombre string, descripcion *string, precio decimal.Decimal, stock int) *Producto {
	return &Producto{
		BaseEntity:  NewBaseEntity(),
		Nombre:      nombre,
		Descripcion: descripcion,
		Precio:      RoundPrecio(precio),
		Stock:       stock,
	}
}

// InStock reports whether at least one unit is available / Indique si au moins une unité est disponible
func (p *Producto) InStock() bool {
	return p.Stock > 0
}

// Validate checks required fields, limits and non-negative amounts / Vérifie champs requis, limites et montants positifs
func (p *Producto) Validate() error {
	if err := requireText("nombre", p.Nombre, ProductoNombreMax); err != nil {
		return err
	}
	if p.Descripcion != nil && tooLong(*p.Descripcion, ProductoDescripcionMax) {
		return InvalidArgumentf("descripcion must be at most %d characters", ProductoDescripcionMax)
	}
	if err := ValidatePrecio(p.Precio); err != nil {
		return err
	}
	return ValidateStock(p.Stock)
}

// RoundPrecio rounds to scale 2; negative amounts are kept as given so Validate still rejects them
// Arrondit à l'échelle 2 ; les montants négatifs sont conservés pour que Validate les rejette
func RoundPrecio(precio decimal.Decimal) decimal.Decimal {
	if precio.IsNegative() {
		return precio
	}
	return precio.Round(PrecioScale)
}

// ValidatePrecio rejects negative prices / Rejette les prix négatifs
func ValidatePrecio(precio decimal.Decimal) error {
	if precio.IsNegative() {
		return InvalidArgumentf("precio must be greater than or equal to 0")
	}
	return nil
}

// ValidateStock rejects negative stock / Rejette les stocks négatifs
func ValidateStock(stock int) error {
	if stock < 0 {
		return InvalidArgumentf("stock must be greater than or equal to 0")
	}
	return nil
}
