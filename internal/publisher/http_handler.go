package publisher

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bookconsole/internal/entity"
	"bookconsole/internal/httpx"
	"bookconsole/internal/validation"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /publisher
// @Summary List publishers
// @Tags publishers
// @Produce json
// @Security Bearer
// @Param page query int false "Page number (1-based)"
// @Param search query string false "Name contains"
// @Success 200 {object} httpx.SuccessResponse
// @Router /publisher [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	pq := httpx.ParsePageQuery(r)
	publishers, total, err := h.service.List(r.Context(), Query{
		Search: pq.Search,
		Limit:  httpx.PageSize,
		Offset: pq.Offset(),
	})
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}
	httpx.JSONSuccess(w, r, httpx.NewPaginated(publishers, pq, total))
}

// Get handles GET /publisher/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		h.writeError(w, r, "get", ErrNotFound)
		return
	}
	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get", err)
		return
	}
	httpx.JSONSuccess(w, r, p)
}

// Create handles POST /publisher
// @Summary Create publisher
// @Description Email and phone are optional; when present they must be well-formed
// @Tags publishers
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body entity.PublisherInput true "Publisher"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /publisher [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, p)
}

// Update handles PUT /publisher/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		h.writeError(w, r, "update", ErrNotFound)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}
	httpx.JSONSuccess(w, r, p)
}

// Delete handles DELETE /publisher/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		h.writeError(w, r, "delete", ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (entity.PublisherInput, bool) {
	var in entity.PublisherInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return in, false
	}
	if errs := validation.Struct(in); len(errs) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", httpx.ValidationDetails(errs))
		return in, false
	}
	return in, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Publisher not found", nil)
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Publisher still has books", nil)
	default:
		log.Printf("publisher: %s failed request_id=%s err=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
