package ports

import (
	"context"

	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/shopspring/decimal"
)

// Service is the generic business contract over transfer objects / Contrat métier générique sur les DTO
type Service[D any, P any] interface {
	GetAll(ctx context.Context) ([]*D, error)
	GetByID(ctx context.Context, id int64) (*D, error)
	Create(ctx context.Context, in *D) (*D, error)
	Update(ctx context.Context, in *D) (*D, error)
	Delete(ctx context.Context, id int64) error
	UpdatePartial(ctx context.Context, in *P) (*D, error)
	SetActive(ctx context.Context, id int64, active bool) (*D, error)

	// ValidateUnique reports whether value is free for the row excludeID / Indique si value est libre pour excludeID
	ValidateUnique(ctx context.Context, value string, excludeID int64) (bool, error)

	GetPaged(ctx context.Context, page, pageSize int) (*dto.Page[*D], error)
}

// ClienteService is the cliente business contract / Contrat métier des clientes
type ClienteService interface {
	Service[dto.ClienteDTO, dto.ClientePartialDTO]

	GetByEmail(ctx context.Context, email string) (*dto.ClienteDTO, error)
	Search(ctx context.Context, term string) ([]*dto.ClienteDTO, error)
	GetActive(ctx context.Context) ([]*dto.ClienteDTO, error)

	// GetRecent returns clientes created during the last days / Retourne les clientes créés ces derniers jours
	GetRecent(ctx context.Context, days int) ([]*dto.ClienteDTO, error)

	ValidateEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error)
}

// ProductoService is the producto business contract / Contrat métier des productos
type ProductoService interface {
	Service[dto.ProductoDTO, dto.ProductoPartialDTO]

	GetByNombre(ctx context.Context, nombre string) (*dto.ProductoDTO, error)
	Search(ctx context.Context, term string) ([]*dto.ProductoDTO, error)
	GetByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*dto.ProductoDTO, error)
	GetLowStock(ctx context.Context, threshold int) ([]*dto.ProductoDTO, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*dto.ProductoDTO, error)
	GetActive(ctx context.Context) ([]*dto.ProductoDTO, error)
	GetRecent(ctx context.Context, days int) ([]*dto.ProductoDTO, error)
	ValidateNombreUnique(ctx context.Context, nombre string, excludeID int64) (bool, error)
}
