package repository

import (
	"context"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClienteRepo_CreateAndGet(t *testing.T) {
	uow, clock := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	c, err := repo.Create(ctx, domain.NewCliente("Ana", "Ruiz", "ana@example.com", strPtr("555-0101")))
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, clock.now, c.CreatedAt)

	got, found, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ana", got.Nombre)
	assert.Equal(t, "ana@example.com", got.Email)
	require.NotNil(t, got.Telefono)
	assert.Equal(t, "555-0101", *got.Telefono)
	assert.True(t, got.IsActive)
	assert.True(t, got.CreatedAt.Equal(clock.now))

	byEmail, found, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, c.ID, byEmail.ID)
}

func TestClienteRepo_EmailConflictIgnoresCase(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewCliente("Ana", "Ruiz", "a@x.com", nil))
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.NewCliente("Otra", "Persona", "A@X.COM", nil))
	assert.ErrorIs(t, err, domain.ErrConflict)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClienteRepo_UpdateExcludesSelf(t *testing.T) {
	uow, clock := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	ana, err := repo.Create(ctx, domain.NewCliente("Ana", "Ruiz", "ana@example.com", nil))
	require.NoError(t, err)
	luis, err := repo.Create(ctx, domain.NewCliente("Luis", "Gil", "luis@example.com", nil))
	require.NoError(t, err)
	created := ana.CreatedAt

	clock.Advance(time.Hour)
	ana.Apellido = "Ruiz Soto"
	ana.Email = "ANA@example.com"
	_, err = repo.Update(ctx, ana)
	require.NoError(t, err)

	got, _, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ruiz Soto", got.Apellido)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	luis.Email = "ana@EXAMPLE.com"
	_, err = repo.Update(ctx, luis)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClienteRepo_EmailExists(t *testing.T) {
	uow, _ := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	c, err := repo.Create(ctx, domain.NewCliente("Ana", "Ruiz", "ana@example.com", nil))
	require.NoError(t, err)

	exists, err := repo.EmailExists(ctx, "Ana@Example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "ana@example.com", c.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// inactive rows still own their email
	c.IsActive = false
	_, err = repo.Update(ctx, c)
	require.NoError(t, err)
	exists, err = repo.EmailExists(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClienteRepo_SearchActiveRecent(t *testing.T) {
	uow, clock := setupContext(t)
	repo := NewClienteRepository(uow)
	ctx := context.Background()

	old, err := repo.Create(ctx, domain.NewCliente("Zoe", "Martin", "zoe@example.com", nil))
	require.NoError(t, err)
	clock.Advance(72 * time.Hour)
	_, err = repo.Create(ctx, domain.NewCliente("Ana", "Martinez", "ana@example.com", nil))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	luis, err := repo.Create(ctx, domain.NewCliente("Luis", "Gil", "luis_100%@example.com", nil))
	require.NoError(t, err)

	found, err := repo.Search(ctx, "MARTIN")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Ana", found[0].Nombre)
	assert.Equal(t, "Zoe", found[1].Nombre)

	found, err = repo.Search(ctx, "_100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, luis.ID, found[0].ID)

	found, err = repo.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, found)

	old.IsActive = false
	_, err = repo.Update(ctx, old)
	require.NoError(t, err)
	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	recent, err := repo.GetRecent(ctx, clock.now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, luis.ID, recent[0].ID, "newest first")
}
