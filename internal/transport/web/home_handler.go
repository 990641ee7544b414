package web

import "net/http"

// indexResponse lists the resources served by the API
type indexResponse struct {
	Name      string            `json:"name"`
	Resources map[string]string `json:"resources"`
}

// Home is the handler for the root path. It describes the available resources.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, indexResponse{
		Name: "evaluation",
		Resources: map[string]string{
			"clientes":  "/api/clientes",
			"productos": "/api/productos",
			"health":    "/health",
			"readiness": "/readiness",
			"metrics":   "/metrics",
		},
	})
}
