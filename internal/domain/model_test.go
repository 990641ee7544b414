package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestBaseEntity_Audit(t *testing.T) {
	b := NewBaseEntity()
	if !b.IsActive {
		t.Error("new entity should be active")
	}
	if !b.IsNew() {
		t.Error("entity without id should be new")
	}
	if b.GetUpdatedAt() != nil {
		t.Error("UpdatedAt should be nil before first save")
	}

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b.SetCreatedAt(now)
	b.SetUpdatedAt(now)
	now = now.Add(time.Hour)

	if !b.GetCreatedAt().Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected CreatedAt %v", b.GetCreatedAt())
	}
	if b.GetUpdatedAt().Equal(now) {
		t.Error("SetUpdatedAt must store a copy")
	}
}

func TestCliente_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cliente *Cliente
		wantErr bool
	}{
		{"Valid", NewCliente("Ana", "Diaz", "ana@example.com", nil), false},
		{"Valid with telefono", NewCliente("Ana", "Diaz", "ana@example.com", strPtr("555-1234")), false},
		{"Blank nombre", NewCliente("  ", "Diaz", "ana@example.com", nil), true},
		{"Blank apellido", NewCliente("Ana", "", "ana@example.com", nil), true},
		{"Blank email", NewCliente("Ana", "Diaz", "", nil), true},
		{"Nombre too long", NewCliente(strings.Repeat("a", ClienteNombreMax+1), "Diaz", "a@b.co", nil), true},
		{"Email too long", NewCliente("Ana", "Diaz", strings.Repeat("a", ClienteEmailMax+1), nil), true},
		{"Multibyte nombre within limit", NewCliente(strings.Repeat("ñ", 60), "Muñoz", "nuno@example.com", nil), false},
		{"Multibyte nombre at limit", NewCliente(strings.Repeat("é", ClienteNombreMax), "Diaz", "a@b.co", nil), false},
		{"Multibyte nombre too long", NewCliente(strings.Repeat("é", ClienteNombreMax+1), "Diaz", "a@b.co", nil), true},
		{"Telefono too long", NewCliente("Ana", "Diaz", "a@b.co", strPtr(strings.Repeat("1", ClienteTelefonoMax+1))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cliente.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindInvalidArgument {
				t.Errorf("expected invalid argument, got %v", KindOf(err))
			}
		})
	}
}

func TestProducto_Validate(t *testing.T) {
	tests := []struct {
		name    string
		precio  string
		stock   int
		wantErr bool
	}{
		{"Zero price", "0", 0, false},
		{"Smallest positive price", "0.01", 5, false},
		{"Negative price", "-0.01", 5, true},
		{"Negative price below scale", "-0.001", 5, true},
		{"Positive price below scale", "0.001", 5, false},
		{"Negative stock", "9.99", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProducto("Widget", nil, decimal.RequireFromString(tt.precio), tt.stock)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProducto_RoundsPrecio(t *testing.T) {
	p := NewProducto("Widget", nil, decimal.RequireFromString("9.999"), 1)
	if !p.Precio.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected 10.00, got %s", p.Precio)
	}
	if !p.InStock() {
		t.Error("expected producto to be in stock")
	}
}

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflictf("email %q already registered", "a@b.co"))

	if !errors.Is(err, ErrConflict) {
		t.Error("expected errors.Is to match ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("conflict must not match ErrNotFound")
	}
	if KindOf(err) != KindConflict {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Error("plain errors should be unknown")
	}
	if ErrNotFound.Error() != "not found" {
		t.Errorf("unexpected message %q", ErrNotFound.Error())
	}
}
