package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/dto"
	"github.com/shopspring/decimal"
)

// defaultLowStock is used when ?umbral= is absent.
const defaultLowStock = 5

func (h *Handler) ListProductos(w http.ResponseWriter, r *http.Request) {
	svc := h.scope().Productos
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

func (h *Handler) GetProducto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) CreateProducto(w http.ResponseWriter, r *http.Request) {
	var in dto.ProductoDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/productos/"+strconv.FormatInt(out.ID, 10))
	jsonResponse(w, http.StatusCreated, out)
}

func (h *Handler) UpdateProducto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.ProductoDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.ID, err = bodyID(id, in.ID); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.Update(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) PatchProducto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.ProductoPartialDTO
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.ID, err = bodyID(id, in.ID); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.UpdatePartial(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) SetProductoActive(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.scope().Productos.SetActive(r.Context(), id, in.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// UpdateProductoStock sets the stock without touching other fields / Définit le stock sans toucher aux autres champs
func (h *Handler) UpdateProductoStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in dto.StockRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.UpdateStock(r.Context(), id, in.Stock)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) DeleteProducto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.scope().Productos.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProductoByNombre(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Productos.GetByNombre(r.Context(), r.PathValue("nombre"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) SearchProductos(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Productos.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// ProductosByPrice handles ?min=&max= / Gère ?min=&max=
func (h *Handler) ProductosByPrice(w http.ResponseWriter, r *http.Request) {
	minPrice, err := queryDecimal(r, "min")
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxPrice, err := queryDecimal(r, "max")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.GetByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) LowStockProductos(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt(r, "umbral", defaultLowStock)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.GetLowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) ActiveProductos(w http.ResponseWriter, r *http.Request) {
	out, err := h.scope().Productos.GetActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) RecentProductos(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "dias", defaultRecentDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.scope().Productos.GetRecent(r.Context(), days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *Handler) ValidateProductoNombre(w http.ResponseWriter, r *http.Request) {
	excludeID, err := queryInt64(r, "excludeId", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.scope().Productos.ValidateNombreUnique(r.Context(), r.URL.Query().Get("nombre"), excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, availabilityResponse{Available: ok})
}

// queryDecimal reads a required decimal query parameter
func queryDecimal(r *http.Request, name string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return decimal.Zero, domain.InvalidArgumentf("query parameter %s is required", name)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.InvalidArgumentf("query parameter %s must be a decimal number", name)
	}
	return d, nil
}
