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
)

// ClienteRepository persists clientes / Persiste les clients
type ClienteRepository struct {
	*Base[*domain.Cliente]
}

var _ ports.ClienteRepository = (*ClienteRepository)(nil)

// NewClienteRepository creates cliente repository / Crée le repository client
func NewClienteRepository(uow *store.Context) *ClienteRepository {
	return &ClienteRepository{Base: NewBase(uow, clienteTable)}
}

// Create reports an email already registered as a conflict; the unique index decides
// Signale un email déjà enregistré comme conflit ; l'index unique décide
func (r *ClienteRepository) Create(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	if c == nil {
		return nil, domain.InvalidArgumentf("cliente is required")
	}
	created, err := r.Base.Create(ctx, c)
	return created, r.conflict(err, c.Email)
}

// Update rejects an email owned by another cliente / Rejette un email appartenant à un autre client
func (r *ClienteRepository) Update(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	if c == nil {
		return nil, domain.InvalidArgumentf("cliente is required")
	}
	updated, err := r.Base.Update(ctx, c)
	return updated, r.conflict(err, c.Email)
}

func (r *ClienteRepository) GetByEmail(ctx context.Context, email string) (*domain.Cliente, bool, error) {
	return r.first(ctx, store.Filter(equalsIgnoreCase("email"), strings.TrimSpace(email)))
}

func (r *ClienteRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := store.Filter(equalsIgnoreCase("email"), strings.TrimSpace(email))
	return r.exists(ctx, excluding(q, excludeID))
}

// Search matches term against nombre, apellido and email / Cherche term dans nombre, apellido et email
func (r *ClienteRepository) Search(ctx context.Context, term string) ([]*domain.Cliente, error) {
	return r.find(ctx, containsAny(term, "nombre", "apellido", "email").Order(orderByNombre))
}

func (r *ClienteRepository) GetActive(ctx context.Context) ([]*domain.Cliente, error) {
	return r.find(ctx, store.Filter("is_active = ?", true).Order(orderByID))
}

// GetRecent returns clientes created at or after since / Retourne les clients créés depuis since
func (r *ClienteRepository) GetRecent(ctx context.Context, since time.Time) ([]*domain.Cliente, error) {
	return r.find(ctx, store.Filter("created_at >= ?", since.UTC()).Order(orderByRecent))
}

// conflict turns a unique index violation into a business conflict / Transforme une violation d'unicité en conflit métier
func (r *ClienteRepository) conflict(err error, email string) error {
	if errors.Is(err, db.ErrDuplicate) {
		return &domain.Error{Kind: domain.KindConflict, Message: fmt.Sprintf("email %q is already registered", email), Err: err}
	}
	return err
}
