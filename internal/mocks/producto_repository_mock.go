package mocks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/ports"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
	"github.com/shopspring/decimal"
)

// Common mock errors
var (
	ErrNoRecord = db.ErrNoRecord
	ErrMockDB   = errors.New("mock: database unavailable")
)

var _ ports.ProductoRepository = (*MockProductoRepository)(nil)

// MockProductoRepository is an in-memory implementation of ports.ProductoRepository for testing
type MockProductoRepository struct {
	Productos map[int64]*domain.Producto
	nextID    int64
	Now       func() time.Time

	// Mock behavior flags
	CreateError      error
	GetAllError      error
	UpdateStockError error

	// Call tracking
	CreateCalls       int
	UpdateCalls       int
	UpdateStockCalls  int
	NombreExistsCalls int
}

// NewMockProductoRepository creates a new mock producto repository
func NewMockProductoRepository() *MockProductoRepository {
	return &MockProductoRepository{
		Productos: make(map[int64]*domain.Producto),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func cloneProducto(p *domain.Producto) *domain.Producto {
	cp := *p
	return &cp
}

func (m *MockProductoRepository) sorted(keep func(*domain.Producto) bool) []*domain.Producto {
	out := make([]*domain.Producto, 0, len(m.Productos))
	for _, p := range m.Productos {
		if keep == nil || keep(p) {
			out = append(out, cloneProducto(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MockProductoRepository) GetAll(ctx context.Context) ([]*domain.Producto, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	return m.sorted(nil), nil
}

func (m *MockProductoRepository) GetByID(ctx context.Context, id int64) (*domain.Producto, bool, error) {
	p, ok := m.Productos[id]
	if !ok {
		return nil, false, nil
	}
	return cloneProducto(p), true, nil
}

func (m *MockProductoRepository) Create(ctx context.Context, p *domain.Producto) (*domain.Producto, error) {
	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.nextID++
	now := m.Now()
	p.ID = m.nextID
	p.CreatedAt = now
	p.SetUpdatedAt(now)
	m.Productos[p.ID] = cloneProducto(p)
	return p, nil
}

func (m *MockProductoRepository) Update(ctx context.Context, p *domain.Producto) (*domain.Producto, error) {
	m.UpdateCalls++
	stored, ok := m.Productos[p.ID]
	if !ok {
		return nil, ErrNoRecord
	}
	p.CreatedAt = stored.CreatedAt
	p.SetUpdatedAt(m.Now())
	m.Productos[p.ID] = cloneProducto(p)
	return p, nil
}

func (m *MockProductoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	_, ok := m.Productos[id]
	delete(m.Productos, id)
	return ok, nil
}

func (m *MockProductoRepository) GetPaged(ctx context.Context, page, pageSize int) ([]*domain.Producto, int, error) {
	all := m.sorted(nil)
	return window(all, page, pageSize), len(all), nil
}

func (m *MockProductoRepository) GetByNombre(ctx context.Context, nombre string) (*domain.Producto, bool, error) {
	for _, p := range m.sorted(nil) {
		if strings.EqualFold(p.Nombre, strings.TrimSpace(nombre)) {
			return p, true, nil
		}
	}
	return nil, false, nil
}

func (m *MockProductoRepository) NombreExists(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	m.NombreExistsCalls++
	for _, p := range m.Productos {
		if p.ID != excludeID && strings.EqualFold(p.Nombre, strings.TrimSpace(nombre)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockProductoRepository) Search(ctx context.Context, term string) ([]*domain.Producto, error) {
	term = strings.ToLower(term)
	return m.sorted(func(p *domain.Producto) bool {
		text := p.Nombre
		if p.Descripcion != nil {
			text += " " + *p.Descripcion
		}
		return strings.Contains(strings.ToLower(text), term)
	}), nil
}

func (m *MockProductoRepository) GetByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*domain.Producto, error) {
	return m.sorted(func(p *domain.Producto) bool {
		return p.Precio.GreaterThanOrEqual(min) && p.Precio.LessThanOrEqual(max)
	}), nil
}

func (m *MockProductoRepository) GetLowStock(ctx context.Context, threshold int) ([]*domain.Producto, error) {
	return m.sorted(func(p *domain.Producto) bool { return p.Stock <= threshold }), nil
}

func (m *MockProductoRepository) GetActive(ctx context.Context) ([]*domain.Producto, error) {
	return m.sorted(func(p *domain.Producto) bool { return p.IsActive }), nil
}

func (m *MockProductoRepository) GetRecent(ctx context.Context, since time.Time) ([]*domain.Producto, error) {
	return m.sorted(func(p *domain.Producto) bool { return !p.CreatedAt.Before(since) }), nil
}

func (m *MockProductoRepository) UpdateStock(ctx context.Context, id int64, stock int) (bool, error) {
	m.UpdateStockCalls++
	if m.UpdateStockError != nil {
		return false, m.UpdateStockError
	}
	p, ok := m.Productos[id]
	if !ok {
		return false, nil
	}
	p.Stock = stock
	p.SetUpdatedAt(m.Now())
	return true, nil
}
