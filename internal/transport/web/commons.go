package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/OtoGahona/Evaluation/internal/app"
	"github.com/OtoGahona/Evaluation/internal/domain"
	"github.com/OtoGahona/Evaluation/internal/repository/db"
)

// maxBodyBytes bounds every JSON request body (1MB).
const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// Handler is a container for application dependencies that are required by HTTP handlers.
// Each request gets its own scope of services from the container.
type Handler struct {
	container *app.Container
}

// NewHandler creates and returns a new Handler instance.
func NewHandler(container *app.Container) *Handler {
	return &Handler{container: container}
}

// scope opens the services for one request / Ouvre les services d'une requête
func (h *Handler) scope() *app.Scope {
	return h.container.NewScope()
}

// ErrorResponse sends a JSON body with an "error" key containing the provided message.
func ErrorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": message,
	})
}

// jsonResponse encodes data as the JSON response body with the given status.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// limitRequestBody wraps a request body with MaxBytesReader to limit its size.
func limitRequestBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
}

// decodeJSON reads a size-limited JSON body into dst / Lit un corps JSON limité en taille dans dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	limitRequestBody(w, r, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return domain.InvalidArgumentf("invalid JSON body: %v", err)
	}
	return nil
}

// statusFor maps an error onto an HTTP status / Associe une erreur à un statut HTTP
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError sends the error response; server-side failures are logged and never echoed
// Envoie la réponse d'erreur ; les échecs serveur sont journalisés et jamais renvoyés
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"err", err,
		)
		ErrorResponse(w, strings.ToLower(http.StatusText(status)), status)
		return
	}
	ErrorResponse(w, publicMessage(err, status), status)
}

func publicMessage(err error, status int) string {
	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if errors.Is(err, errBodyTooLarge) {
		return err.Error()
	}
	return strings.ToLower(http.StatusText(status))
}

// pathID parses the {id} path segment / Analyse le segment {id} du chemin
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgumentf("invalid id %q", raw)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter / Lit un paramètre entier optionnel
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgumentf("query parameter %s must be an integer", name)
	}
	return n, nil
}

func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidArgumentf("query parameter %s must be an integer", name)
	}
	return n, nil
}

// wantsPage reports whether a list request asks for paging / Indique si la requête demande une pagination
func wantsPage(r *http.Request) bool {
	q := r.URL.Query()
	return q.Has("page") || q.Has("pageSize")
}

// pageParams reads page and pageSize, defaulting pageSize from config
func (h *Handler) pageParams(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(r, "pageSize", h.container.Config.Pagination.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

// bodyID reconciles the id in the path with the one in the body
func bodyID(pathID, body int64) (int64, error) {
	if body != 0 && body != pathID {
		return 0, domain.InvalidArgumentf("body id %d does not match path id %d", body, pathID)
	}
	return pathID, nil
}
