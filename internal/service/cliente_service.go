package service

import (
	"context"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/OtoGahona/Evaluation/internal/ports"
)

const entityCliente = "cliente"

// ClienteService handles cliente business rules / Gère les règles métier des clients
type ClienteService struct {
	*Base[*domain.Cliente, dto.ClienteDTO, dto.ClientePartialDTO]
	repo ports.ClienteRepository
}

var _ ports.ClienteService = (*ClienteService)(nil)

// NewClienteService creates cliente service / Crée le service client
func NewClienteService(repo ports.ClienteRepository, opts ...Option) *ClienteService {
	hooks := Hooks[*domain.Cliente, dto.ClienteDTO, dto.ClientePartialDTO]{
		Entity:    entityCliente,
		ToDTO:     dto.ClienteToDTO,
		ToEntity:  dto.ClienteFromDTO,
		DTOID:     func(d *dto.ClienteDTO) int64 { return d.ID },
		PartialID: func(p *dto.ClientePartialDTO) int64 { return p.ID },
		Merge:     dto.MergeCliente,
		Validate:  validateCliente,
		Unique: &UniqueField[*domain.Cliente]{
			Name:   "email",
			Value:  func(c *domain.Cliente) string { return c.Email },
			Exists: repo.EmailExists,
		},
	}
	return &ClienteService{
		Base: NewBase[*domain.Cliente](repo, hooks, opts...),
		repo: repo,
	}
}

func validateCliente(c *domain.Cliente) error {
	c.Email = strings.TrimSpace(c.Email)
	if err := c.Validate(); err != nil {
		return err
	}
	if !isValidEmail(c.Email) {
		return domain.InvalidArgumentf("email %q is not a valid address", c.Email)
	}
	return nil
}

// GetByEmail looks a cliente up ignoring case / Recherche un client sans tenir compte de la casse
func (s *ClienteService) GetByEmail(ctx context.Context, email string) (out *dto.ClienteDTO, err error) {
	defer func() { err = s.finish("get_by_email", err) }()

	if domain.IsBlank(email) {
		return nil, domain.InvalidArgumentf("email is required")
	}
	c, found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NotFoundf("cliente with email %q not found", email)
	}
	return dto.ClienteToDTO(c), nil
}

func (s *ClienteService) Search(ctx context.Context, term string) (out []*dto.ClienteDTO, err error) {
	defer func() { err = s.finish("search", err) }()

	term, err = requireTerm(term)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return dto.ClientesToDTO(items), nil
}

func (s *ClienteService) GetActive(ctx context.Context) (out []*dto.ClienteDTO, err error) {
	defer func() { err = s.finish("get_active", err) }()

	items, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ClientesToDTO(items), nil
}

// GetRecent returns clientes created in the last days, newest first / Retourne les clients récents, du plus récent au plus ancien
func (s *ClienteService) GetRecent(ctx context.Context, days int) (out []*dto.ClienteDTO, err error) {
	defer func() { err = s.finish("get_recent", err, "days", days) }()

	from, err := since(s.now(), days)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetRecent(ctx, from)
	if err != nil {
		return nil, err
	}
	return dto.ClientesToDTO(items), nil
}

// ValidateEmailUnique reports whether email is free for excludeID / Indique si l'email est libre pour excludeID
func (s *ClienteService) ValidateEmailUnique(ctx context.Context, email string, excludeID int64) (bool, error) {
	return s.ValidateUnique(ctx, email, excludeID)
}
