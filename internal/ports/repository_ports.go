package ports

import (
	"context"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/shopspring/decimal"
)

// Repository is the generic data access contract / Contrat d'accès aux données générique
type Repository[T domain.Entity] interface {
	// GetAll returns every row ordered by id / Retourne toutes les lignes triées par id
	GetAll(ctx context.Context) ([]T, error)

	// GetByID returns found=false with a nil error when the id is missing / Retourne found=false sans erreur si l'id est absent
	GetByID(ctx context.Context, id int64) (T, bool, error)

	// Create inserts the entity and assigns its id / Insère l'entité et lui assigne un id
	Create(ctx context.Context, entity T) (T, error)

	// Update replaces the mutable columns of an existing row / Remplace les colonnes modifiables
	Update(ctx context.Context, entity T) (T, error)

	// Delete removes the row, reporting whether it existed / Supprime la ligne et indique si elle existait
	Delete(ctx context.Context, id int64) (bool, error)

	// GetPaged returns one page ordered by id and the total row count / Retourne une page et le total
	GetPaged(ctx context.Context, page, pageSize int) ([]T, int, error)
}

// ClienteRepository adds cliente-specific queries / Ajoute les requêtes propres aux clientes
type ClienteRepository interface {
	Repository[*domain.Cliente]

	GetByEmail(ctx context.Context, email string) (*domain.Cliente, bool, error)

	// EmailExists ignores case and the row identified by excludeID / Ignore la casse et la ligne excludeID
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)

	Search(ctx context.Context, term string) ([]*domain.Cliente, error)
	GetActive(ctx context.Context) ([]*domain.Cliente, error)
	GetRecent(ctx context.Context, since time.Time) ([]*domain.Cliente, error)
}

// ProductoRepository adds producto-specific queries / Ajoute les requêtes propres aux productos
type ProductoRepository interface {
	Repository[*domain.Producto]

	GetByNombre(ctx context.Context, nombre string) (*domain.Producto, bool, error)
	NombreExists(ctx context.Context, nombre string, excludeID int64) (bool, error)
	Search(ctx context.Context, term string) ([]*domain.Producto, error)
	GetByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*domain.Producto, error)

	// GetLowStock returns productos with stock at or below threshold / Retourne les productos dont le stock est <= threshold
	GetLowStock(ctx context.Context, threshold int) ([]*domain.Producto, error)

	GetActive(ctx context.Context) ([]*domain.Producto, error)
	GetRecent(ctx context.Context, since time.Time) ([]*domain.Producto, error)

	// UpdateStock writes stock in place and stamps updated_at / Écrit le stock et horodate updated_at
	UpdateStock(ctx context.Context, id int64, stock int) (bool, error)
}
