package book

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

// listResponse nests the book page next to the author and publisher lists.
type listResponse struct {
	Book      httpx.Paginated[entity.Book] `json:"book"`
	Author    []entity.NamedRef            `json:"author"`
	Publisher []entity.NamedRef            `json:"publisher"`
}

// List handles GET /book
// @Summary List books
// @Description One page of books filtered by title, plus every author and publisher
// @Tags books
// @Produce json
// @Security Bearer
// @Param page query int false "Page number (1-based)"
// @Param search query string false "Title contains"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /book [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	pq := httpx.ParsePageQuery(r)
	listing, err := h.service.List(r.Context(), Query{
		Search: pq.Search,
		Limit:  httpx.PageSize,
		Offset: pq.Offset(),
	})
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}
	httpx.JSONSuccess(w, r, listResponse{
		Book:      httpx.NewPaginated(listing.Books, pq, listing.Total),
		Author:    listing.Authors,
		Publisher: listing.Publishers,
	})
}

// Get handles GET /book/{id}
// @Summary Get book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /book/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.ParseID(r, "id")
	if !ok {
		h.writeError(w, r, "get", ErrNotFound)
		return
	}
	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get", err)
		return
	}
	httpx.JSONSuccess(w, r, b)
}

// Create handles POST /book
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body entity.BookInput true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /book [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /book/{id}
// @Summary Replace book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body entity.BookInput true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /book/{id} [put]
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
	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}
	httpx.JSONSuccess(w, r, b)
}

// Delete handles DELETE /book/{id}
// @Summary Delete book
// @Tags books
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /book/{id} [delete]
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

func decodeInput(w http.ResponseWriter, r *http.Request) (entity.BookInput, bool) {
	var in entity.BookInput
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
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInvalidReference):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REFERENCE", "Unknown author or publisher", nil)
	default:
		log.Printf("book: %s failed request_id=%s err=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
