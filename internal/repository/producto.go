package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/OtoGahona/Evaluation/internal/repository/store"
	"github.com/shopspring/decimal"
)

// ProductoRepository persists productos / Persiste les produits
type ProductoRepository struct {
	*Base[*domain.Producto]
}

var _ ports.ProductoRepository = (*ProductoRepository)(nil)

// NewProductoRepository creates producto repository / Crée le repository produit
func NewProductoRepository(uow *store.Context) *ProductoRepository {
	return &ProductoRepository{Base: NewBase(uow, productoTable)}
}

// Create rejects negative amounts; a nombre already in use is reported by the unique index
// Rejette les montants négatifs ; un nom déjà utilisé est signalé par l'index unique
func (r *ProductoRepository) Create(ctx context.Context, p *domain.Producto) (*domain.Producto, error) {
	if err := r.check(p); err != nil {
		return nil, err
	}
	created, err := r.Base.Create(ctx, p)
	return created, r.conflict(err, p.Nombre)
}

// Update applies the same rules as Create / Mêmes règles que Create
func (r *ProductoRepository) Update(ctx context.Context, p *domain.Producto) (*domain.Producto, error) {
	if err := r.check(p); err != nil {
		return nil, err
	}
	updated, err := r.Base.Update(ctx, p)
	return updated, r.conflict(err, p.Nombre)
}

func (r *ProductoRepository) GetByNombre(ctx context.Context, nombre string) (*domain.Producto, bool, error) {
	return r.first(ctx, store.Filter(equalsIgnoreCase("nombre"), strings.TrimSpace(nombre)))
}

func (r *ProductoRepository) NombreExists(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	q := store.Filter(equalsIgnoreCase("nombre"), strings.TrimSpace(nombre))
	return r.exists(ctx, excluding(q, excludeID))
}

// Search matches term against nombre and descripcion / Cherche term dans nombre et descripcion
func (r *ProductoRepository) Search(ctx context.Context, term string) ([]*domain.Producto, error) {
	return r.find(ctx, containsAny(term, "nombre", "descripcion").Order(orderByNombre))
}

// GetByPriceRange returns productos priced within [min, max] / Retourne les produits dont le prix est dans [min, max]
func (r *ProductoRepository) GetByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*domain.Producto, error) {
	q := store.Filter("precio >= ? AND precio <= ?", min, max).Order("precio ASC, id ASC")
	return r.find(ctx, q)
}

func (r *ProductoRepository) GetLowStock(ctx context.Context, threshold int) ([]*domain.Producto, error) {
	return r.find(ctx, store.Filter("stock <= ?", threshold).Order("stock ASC, id ASC"))
}

func (r *ProductoRepository) GetActive(ctx context.Context) ([]*domain.Producto, error) {
	return r.find(ctx, store.Filter("is_active = ?", true).Order(orderByID))
}

func (r *ProductoRepository) GetRecent(ctx context.Context, since time.Time) ([]*domain.Producto, error) {
	return r.find(ctx, store.Filter("created_at >= ?", since.UTC()).Order(orderByRecent))
}

// UpdateStock writes the stock column only and stamps updated_at / N'écrit que le stock et horodate updated_at
func (r *ProductoRepository) UpdateStock(ctx context.Context, id int64, stock int) (bool, error) {
	if err := domain.ValidateStock(stock); err != nil {
		return false, err
	}
	n, err := r.uow.Exec(ctx, "UPDATE productos SET stock = ?, updated_at = ? WHERE id = ?", stock, r.uow.Now(), id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductoRepository) check(p *domain.Producto) error {
	if p == nil {
		return domain.InvalidArgumentf("producto is required")
	}
	if err := domain.ValidatePrecio(p.Precio); err != nil {
		return err
	}
	return domain.ValidateStock(p.Stock)
}

func (r *ProductoRepository) conflict(err error, nombre string) error {
	if errors.Is(err, db.ErrDuplicate) {
		return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("producto %q already exists", nombre), Err: err}
	}
	return err
}
