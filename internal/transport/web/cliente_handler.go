package web

import (
	"net/http"
	"strconv"

	"github.com/OtoGahona/Evaluation/internal/dto"
)

// defaultRecentDays is used when ?dias= is absent.
const defaultRecentDays = 7

// availabilityResponse answers the validar-* endpoints
type availabilityResponse struct {
	Available bool `json:"available"`
}

// ListClientes returns every cliente, or one page when page/pageSize are given
// Retourne tous les clientes, ou une page si page/pageSize sont fournis
func (h *Handler) ListClientes(w http.ResponseWriter, r *http.Request) {
	svc := h.scope().Clientes
	if wantsPage(r) {
		page, size, err := h.pageParams(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out, err := svc.GetPaged(r.Context(), page, size)
		if err != nil {
			writeError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, out)
		return
	}

	out, err := svc.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) GetCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// CreateCliente handles POST /api/clientes / Gère POST /api/clientes
func (h *Handler) CreateCliente(w http.ResponseWriter, r *http.Request) {
	var in dto.ClienteDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/clientes/"+strconv.FormatInt(out.ID, 10))
	jsonResponse(w, http.StatusCreated, out)
}

func (h *Handler) UpdateCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.ClienteDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.ID, err = bodyID(id, in.ID); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.Update(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// PatchCliente applies a partial update / Applique une mise à jour partielle
func (h *Handler) PatchCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.ClientePartialDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.ID, err = bodyID(id, in.ID); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.UpdatePartial(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) SetClienteActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.ActiveRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.SetActive(r.Context(), id, in.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) DeleteCliente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.scope().Clientes.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetClienteByEmail(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Clientes.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) SearchClientes(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Clientes.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) ActiveClientes(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Clientes.GetActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) RecentClientes(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "dias", defaultRecentDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Clientes.GetRecent(r.Context(), days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// ValidateClienteEmail reports whether an email is free / Indique si un email est libre
func (h *Handler) ValidateClienteEmail(w http.ResponseWriter, r *http.Request) {
	excludeID, err := queryInt64(r, "excludeId", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.scope().Clientes.ValidateEmailUnique(r.Context(), r.URL.Query().Get("email"), excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, availabilityResponse{Available: ok})
}
