package service

import (
	"context"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/shopspring/decimal"
)

const entityProducto = "producto"

// ProductoService handles producto business rules / Gère les règles métier des produits
type ProductoService struct {
	*Base[*domain.Producto, dto.ProductoDTO, dto.ProductoPartialDTO]
	repo ports.ProductoRepository
}

var _ ports.ProductoService = (*ProductoService)(nil)

// NewProductoService creates producto service / Crée le service produit
func NewProductoService(repo ports.ProductoRepository, opts ...Option) *ProductoService {
	hooks := Hooks[*domain.Producto, dto.ProductoDTO, dto.ProductoPartialDTO]{
		Entity:    entityProducto,
		ToDTO:     dto.ProductoToDTO,
		ToEntity:  dto.ProductoFromDTO,
		DTOID:     func(d *dto.ProductoDTO) int64 { return d.ID },
		PartialID: func(p *dto.ProductoPartialDTO) int64 { return p.ID },
		Merge:     dto.MergeProducto,
		Validate:  validateProducto,
		Unique: &UniqueField[*domain.Producto]{
			Name:   "nombre",
			Value:  func(p *domain.Producto) string { return p.Nombre },
			Exists: repo.NombreExists,
		},
	}
	return &ProductoService{
		Base: NewBase[*domain.Producto](repo, hooks, opts...),
		repo: repo,
	}
}

func validateProducto(p *domain.Producto) error {
	p.Nombre = strings.TrimSpace(p.Nombre)
	return p.Validate()
}

func (s *ProductoService) GetByNombre(ctx context.Context, nombre string) (out *dto.ProductoDTO, err error) {
	defer func() { err = s.finish("get_by_nombre", err) }()

	if domain.IsBlank(nombre) {
		return nil, domain.InvalidArgumentf("nombre is required")
	}
	p, found, err := s.repo.GetByNombre(ctx, nombre)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NotFoundf("producto %q not found", nombre)
	}
	return dto.ProductoToDTO(p), nil
}

func (s *ProductoService) Search(ctx context.Context, term string) (out []*dto.ProductoDTO, err error) {
	defer func() { err = s.finish("search", err) }()

	term, err = requireTerm(term)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return dto.ProductosToDTO(items), nil
}

// GetByPriceRange requires 0 <= min <= max / Exige 0 <= min <= max
func (s *ProductoService) GetByPriceRange(ctx context.Context, min, max decimal.Decimal) (out []*dto.ProductoDTO, err error) {
	defer func() { err = s.finish("get_by_price_range", err) }()

	if min.IsNegative() || max.IsNegative() {
		return nil, domain.InvalidArgumentf("price bounds must be greater than or equal to 0")
	}
	if min.GreaterThan(max) {
		return nil, domain.InvalidArgumentf("min price %s is greater than max price %s", min, max)
	}
	items, err := s.repo.GetByPriceRange(ctx, min, max)
	if err != nil {
		return nil, err
	}
	return dto.ProductosToDTO(items), nil
}

func (s *ProductoService) GetLowStock(ctx context.Context, threshold int) (out []*dto.ProductoDTO, err error) {
	defer func() { err = s.finish("get_low_stock", err, "threshold", threshold) }()

	if threshold < 0 {
		return nil, domain.InvalidArgumentf("threshold must be greater than or equal to 0")
	}
	items, err := s.repo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return dto.ProductosToDTO(items), nil
}

// UpdateStock sets the stock in place and returns the reloaded producto / Définit le stock et retourne le produit rechargé
func (s *ProductoService) UpdateStock(ctx context.Context, id int64, stock int) (out *dto.ProductoDTO, err error) {
	defer func() { err = s.finish("update_stock", err, "id", id) }()

	if id <= 0 {
		return nil, domain.InvalidArgumentf("id must be greater than 0")
	}
	if err := domain.ValidateStock(stock); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, s.notFound(id)
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ProductoToDTO(p), nil
}

func (s *ProductoService) GetActive(ctx context.Context) (out []*dto.ProductoDTO, err error) {
	defer func() { err = s.finish("get_active", err) }()

	items, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ProductosToDTO(items), nil
}

func (s *ProductoService) GetRecent(ctx context.Context, days int) (out []*dto.ProductoDTO, err error) {
	defer func() { err = s.finish("get_recent", err, "days", days) }()

	from, err := since(s.now(), days)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetRecent(ctx, from)
	if err != nil {
		return nil, err
	}
	return dto.ProductosToDTO(items), nil
}

func (s *ProductoService) ValidateNombreUnique(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	return s.ValidateUnique(ctx, nombre, excludeID)
}
