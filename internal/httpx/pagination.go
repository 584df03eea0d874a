package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"bookconsole/internal/validation"
)

// PageSize is the fixed length of every catalog listing page.
const PageSize = 15

// PageQuery is the page number and search term of a listing request.
type PageQuery struct {
	Page   int
	Search string
}

// Offset is the row offset of the first record on the page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * PageSize
}

// ParsePageQuery reads ?page and ?search. Missing or invalid pages mean 1.
func ParsePageQuery(r *http.Request) PageQuery {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	return PageQuery{
		Page:   page,
		Search: strings.TrimSpace(query.Get("search")),
	}
}

// Paginated is the body of a listing: one page of records plus the page
// numbers the console pages through.
type Paginated[E any] struct {
	Data        []E `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// NewPaginated builds the listing body for items found by q out of total
// matches. An empty result still reports one page.
func NewPaginated[E any](items []E, q PageQuery, total int) Paginated[E] {
	if items == nil {
		items = []E{}
	}
	lastPage := (total + PageSize - 1) / PageSize
	if lastPage < 1 {
		lastPage = 1
	}
	return Paginated[E]{
		Data:        items,
		CurrentPage: q.Page,
		LastPage:    lastPage,
		Total:       total,
	}
}

// ValidationDetails converts field failures into error envelope details.
func ValidationDetails(errs []validation.FieldError) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, ErrorDetail{
			Field:   fe.Field,
			Message: validation.Message(fe),
		})
	}
	return details
}

// ParseID reads a positive integer path value.
func ParseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
