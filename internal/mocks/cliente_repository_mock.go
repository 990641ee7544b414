package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/ports"
)

var _ ports.ClienteRepository = (*MockClienteRepository)(nil)

// MockClienteRepository is an in-memory implementation of ports.ClienteRepository for testing
type MockClienteRepository struct {
	// Mock data storage
	Clientes map[int64]*domain.Cliente
	nextID   int64
	Now      func() time.Time

	// Mock behavior flags
	CreateError      error
	GetByIDError     error
	UpdateError      error
	DeleteError      error
	EmailExistsError error

	// Call tracking
	CreateCalls      int
	GetByIDCalls     int
	UpdateCalls      int
	DeleteCalls      int
	EmailExistsCalls int
}

// NewMockClienteRepository creates a new mock cliente repository
func NewMockClienteRepository() *MockClienteRepository {
	return &MockClienteRepository{
		Clientes: make(map[int64]*domain.Cliente),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func cloneCliente(c *domain.Cliente) *domain.Cliente {
	cp := *c
	return &cp
}

func (m *MockClienteRepository) sorted(keep func(*domain.Cliente) bool) []*domain.Cliente {
	out := make([]*domain.Cliente, 0, len(m.Clientes))
	for _, c := range m.Clientes {
		if keep == nil || keep(c) {
			out = append(out, cloneCliente(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MockClienteRepository) GetAll(ctx context.Context) ([]*domain.Cliente, error) {
	return m.sorted(nil), nil
}

func (m *MockClienteRepository) GetByID(ctx context.Context, id int64) (*domain.Cliente, bool, error) {
	m.GetByIDCalls++
	if m.GetByIDError != nil {
		return nil, false, m.GetByIDError
	}
	c, ok := m.Clientes[id]
	if !ok {
		return nil, false, nil
	}
	return cloneCliente(c), true, nil
}

func (m *MockClienteRepository) Create(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.nextID++
	now := m.Now()
	c.ID = m.nextID
	c.CreatedAt = now
	c.SetUpdatedAt(now)
	m.Clientes[c.ID] = cloneCliente(c)
	return c, nil
}

func (m *MockClienteRepository) Update(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	stored, ok := m.Clientes[c.ID]
	if !ok {
		return nil, ErrNoRecord
	}
	c.CreatedAt = stored.CreatedAt
	c.SetUpdatedAt(m.Now())
	m.Clientes[c.ID] = cloneCliente(c)
	return c, nil
}

func (m *MockClienteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	_, ok := m.Clientes[id]
	delete(m.Clientes, id)
	return ok, nil
}

func (m *MockClienteRepository) GetPaged(ctx context.Context, page, pageSize int) ([]*domain.Cliente, int, error) {
	all := m.sorted(nil)
	return window(all, page, pageSize), len(all), nil
}

func (m *MockClienteRepository) GetByEmail(ctx context.Context, email string) (*domain.Cliente, bool, error) {
	for _, c := range m.sorted(nil) {
		if strings.EqualFold(c.Email, strings.TrimSpace(email)) {
			return c, true, nil
		}
	}
	return nil, false, nil
}

func (m *MockClienteRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.EmailExistsCalls++
	if m.EmailExistsError != nil {
		return false, m.EmailExistsError
	}
	for _, c := range m.Clientes {
		if c.ID != excludeID && strings.EqualFold(c.Email, strings.TrimSpace(email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockClienteRepository) Search(ctx context.Context, term string) ([]*domain.Cliente, error) {
	term = strings.ToLower(term)
	return m.sorted(func(c *domain.Cliente) bool {
		return strings.Contains(strings.ToLower(c.Nombre+" "+c.Apellido+" "+c.Email), term)
	}), nil
}

func (m *MockClienteRepository) GetActive(ctx context.Context) ([]*domain.Cliente, error) {
	return m.sorted(func(c *domain.Cliente) bool { return c.IsActive }), nil
}

func (m *MockClienteRepository) GetRecent(ctx context.Context, since time.Time) ([]*domain.Cliente, error) {
	return m.sorted(func(c *domain.Cliente) bool { return !c.CreatedAt.Before(since) }), nil
}

func window[T any](all []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start < 0 || start >= len(all) {
		return []T{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
