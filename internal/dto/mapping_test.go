package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClienteToDTO_AuditMapping(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	c := domain.NewCliente("Ana", "Diaz", "ana@example.com", nil)
	c.ID = 7
	c.CreatedAt = created
	c.UpdatedAt = &updated

	d := dto.ClienteToDTO(c)

	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "Ana", d.Nombre)
	assert.Equal(t, created, d.CreateAt)
	require.NotNil(t, d.UpdateAt)
	assert.Equal(t, updated, *d.UpdateAt)
	assert.Nil(t, d.DeleteAt, "DeleteAt is never derived from the entity")
	assert.True(t, d.IsActive)
}

func TestClienteFromDTO_IgnoresAuditFields(t *testing.T) {
	deleted := time.Now()
	d := &dto.ClienteDTO{
		BaseDTO: dto.BaseDTO{
			ID:       3,
			Nombre:   "Ana",
			CreateAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
			DeleteAt: &deleted,
		},
		Apellido: "Diaz",
		Email:    "ana@example.com",
	}

	c := dto.ClienteFromDTO(d)

	assert.Equal(t, int64(3), c.ID)
	assert.True(t, c.CreatedAt.IsZero(), "CreateAt from callers must not reach the entity")
	assert.Nil(t, c.UpdatedAt)
	assert.True(t, c.IsActive)
}

func TestMergeCliente_OnlyTelefono(t *testing.T) {
	c := domain.NewCliente("Ana", "Diaz", "ana@example.com", nil)
	tel := "555-0000"

	dto.MergeCliente(c, &dto.ClientePartialDTO{ID: 1, Telefono: &tel})

	assert.Equal(t, "Ana", c.Nombre)
	assert.Equal(t, "Diaz", c.Apellido)
	assert.Equal(t, "ana@example.com", c.Email)
	require.NotNil(t, c.Telefono)
	assert.Equal(t, tel, *c.Telefono)
}

func TestMergeProducto_RoundsPrecio(t *testing.T) {
	p := domain.NewProducto("Widget", nil, decimal.RequireFromString("9.99"), 5)
	precio := decimal.RequireFromString("1.005")

	dto.MergeProducto(p, &dto.ProductoPartialDTO{ID: 1, Precio: &precio})

	assert.Equal(t, "1.01", p.Precio.StringFixed(2))
	assert.Equal(t, 5, p.Stock)
}

func TestMergeProducto_KeepsNegativePrecio(t *testing.T) {
	p := domain.NewProducto("Widget", nil, decimal.RequireFromString("9.99"), 5)
	precio := decimal.RequireFromString("-0.001")

	dto.MergeProducto(p, &dto.ProductoPartialDTO{ID: 1, Precio: &precio})

	assert.True(t, p.Precio.IsNegative())
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidArgument)
}

func TestProductoDTO_JSON(t *testing.T) {
	p := domain.NewProducto("Widget", nil, decimal.RequireFromString("9.99"), 5)
	p.ID = 1
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	b, err := json.Marshal(dto.ProductoToDTO(p))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "Widget", got["nombre"])
	assert.Equal(t, "9.99", got["precio"])
	assert.NotContains(t, got, "deleteAt")
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := dto.Page[int]{TotalCount: tt.total, PageSize: tt.size}
		assert.Equal(t, tt.want, p.TotalPages())
	}
}
