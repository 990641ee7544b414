package web

import (
	"net/http"

	"github.com/OtoGahona/Evaluation/internal/app"
	"github.com/OtoGahona/Evaluation/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
//
// The returned stop function releases the rate limiter goroutines.
func NewMux(h *Handler, conf *config.Config, container *app.Container) (http.Handler, func()) {
	mux := http.NewServeMux()
	mw := NewMiddleware(conf, container.Metrics)

	// Health checks and metrics stay outside the per-resource routes
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Clientes
	mux.HandleFunc("GET /api/clientes", h.ListClientes)
	mux.HandleFunc("POST /api/clientes", h.CreateCliente)
	mux.HandleFunc("GET /api/clientes/{id}", h.GetCliente)
	mux.HandleFunc("PUT /api/clientes/{id}", h.UpdateCliente)
	mux.HandleFunc("PATCH /api/clientes/{id}", h.PatchCliente)
	mux.HandleFunc("DELETE /api/clientes/{id}", h.DeleteCliente)
	mux.HandleFunc("PATCH /api/clientes/{id}/activo", h.SetClienteActive)
	mux.HandleFunc("GET /api/clientes/email/{email}", h.GetClienteByEmail)
	mux.HandleFunc("GET /api/clientes/buscar", h.SearchClientes)
	mux.HandleFunc("GET /api/clientes/activos", h.ActiveClientes)
	mux.HandleFunc("GET /api/clientes/recientes", h.RecentClientes)
	mux.HandleFunc("GET /api/clientes/validar-email", h.ValidateClienteEmail)

	// Productos
	mux.HandleFunc("GET /api/productos", h.ListProductos)
	mux.HandleFunc("POST /api/productos", h.CreateProducto)
	mux.HandleFunc("GET /api/productos/{id}", h.GetProducto)
	mux.HandleFunc("PUT /api/productos/{id}", h.UpdateProducto)
	mux.HandleFunc("PATCH /api/productos/{id}", h.PatchProducto)
	mux.HandleFunc("DELETE /api/productos/{id}", h.DeleteProducto)
	mux.HandleFunc("PATCH /api/productos/{id}/activo", h.SetProductoActive)
	mux.HandleFunc("PATCH /api/productos/{id}/stock", h.UpdateProductoStock)
	mux.HandleFunc("GET /api/productos/nombre/{nombre}", h.GetProductoByNombre)
	mux.HandleFunc("GET /api/productos/buscar", h.SearchProductos)
	mux.HandleFunc("GET /api/productos/precio", h.ProductosByPrice)
	mux.HandleFunc("GET /api/productos/stock-bajo", h.LowStockProductos)
	mux.HandleFunc("GET /api/productos/activos", h.ActiveProductos)
	mux.HandleFunc("GET /api/productos/recientes", h.RecentProductos)
	mux.HandleFunc("GET /api/productos/validar-nombre", h.ValidateProductoNombre)

	// Global middlewares - applied in reverse order / Middlewares globaux appliqués en ordre inverse
	handler := chain(mux,
		RequestID, // RequestID first - generates ID for all middleware
		Logging,
		Timeout(conf.Server.RequestTimeout),
		mw.Cors,
		mw.SecurityHeaders,
		mw.RateLimit,
		mw.RateLimitWrites,
		mw.MetricsMiddleware,
	)

	return handler, mw.Stop
}

// chain wraps h so the first middleware runs first / Enveloppe h, le premier middleware s'exécute en premier
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
