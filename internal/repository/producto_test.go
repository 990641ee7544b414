package repository

import (
	"context"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProducto(nombre, precio string, stock int) *domain.Producto {
	return domain.NewProducto(nombre, nil, decimal.RequireFromString(precio), stock)
}

func TestProductoRepo_CreateRoundTripsPrecio(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	p, err := repo.Create(ctx, domain.NewProducto("Widget", strPtr("blue"), decimal.RequireFromString("9.99"), 5))
	require.NoError(t, err)

	got, found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Precio.Equal(decimal.RequireFromString("9.99")), "got %s", got.Precio)
	assert.Equal(t, 5, got.Stock)
	require.NotNil(t, got.Descripcion)
	assert.Equal(t, "blue", *got.Descripcion)

	byName, found, err := repo.GetByNombre(ctx, "WIDGET")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, p.ID, byName.ID)
}

func TestProductoRepo_RejectsNegativeAmounts(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	_, err := repo.Create(ctx, newProducto("Bad", "-0.01", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = repo.Create(ctx, newProducto("Bad", "1", -1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = repo.Create(ctx, newProducto("Cheap", "0.01", 0))
	assert.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductoRepo_DuplicateNombre(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	_, err := repo.Create(ctx, newProducto("Widget", "1", 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newProducto("widget", "2", 2))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductoRepo_Queries(t *testing.T) {
	uow, clock := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	cheap, err := repo.Create(ctx, newProducto("Lapiz", "0.50", 2))
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)
	mid, err := repo.Create(ctx, domain.NewProducto("Cuaderno", strPtr("Cuaderno de lapiz"), decimal.RequireFromString("3.25"), 40))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newProducto("Mochila", "45.00", 0))
	require.NoError(t, err)

	inRange, err := repo.GetByPriceRange(ctx, decimal.RequireFromString("0.50"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, cheap.ID, inRange[0].ID)
	assert.Equal(t, mid.ID, inRange[1].ID)

	low, err := repo.GetLowStock(ctx, 2)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Mochila", low[0].Nombre)

	found, err := repo.Search(ctx, "LAPIZ")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Cuaderno", found[0].Nombre)
	assert.Equal(t, "Lapiz", found[1].Nombre)

	recent, err := repo.GetRecent(ctx, clock.now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestProductoRepo_UpdateStock(t *testing.T) {
	uow, clock := setupContext(t)
	repo := NewProductoRepository(uow)
	ctx := context.Background()

	p, err := repo.Create(ctx, newProducto("Widget", "1", 1))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	ok, err := repo.UpdateStock(ctx, p.ID, 12)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Stock)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(clock.now))
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))

	ok, err = repo.UpdateStock(ctx, 999, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.UpdateStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
