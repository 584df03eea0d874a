package author

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

// List handles GET /author
// @Summary List authors
// @Description One page of authors, optionally filtered by name
// @Tags authors
// @Produce json
// @Security Bearer
// @Param page query int false "Page number (1-based)"
// @Param search query string false "Name contains"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /author [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	pq := httpx.ParsePageQuery(r)
	authors, total, err := h.service.List(r.Context(), Query{
		Search: pq.Search,
		Limit:  httpx.PageSize,
		Offset: pq.Offset(),
	})
	if err != nil {
		log.Printf("author: list failed request_id=%s err=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, httpx.NewPaginated(authors, pq, total))
}

// Get handles GET /author/{id}
// @Summary Get author
// @Tags authors
// @Produce json
// @Security Bearer
// @Param id path int true "Author ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /author/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
		return
	}
	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get", err)
		return
	}
	httpx.JSONSuccess(w, r, a)
}

// Create handles POST /author
// @Summary Create author
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body entity.AuthorInput true "Author"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /author [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	a, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, a)
}

// Update handles PUT /author/{id}
// @Summary Replace author
// @Tags authors
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Author ID"
// @Param request body entity.AuthorInput true "Author"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /author/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	a, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}
	httpx.JSONSuccess(w, r, a)
}

// Delete handles DELETE /author/{id}
// @Summary Delete author
// @Tags authors
// @Security Bearer
// @Param id path int true "Author ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /author/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (entity.AuthorInput, bool) {
	var in entity.AuthorInput
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
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Author still has books", nil)
	default:
		log.Printf("author: %s failed request_id=%s err=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
