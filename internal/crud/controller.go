// Package crud implements the list-and-edit screen state machine shared by
// every catalog entity: search, paginate, mutate, refresh.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"bookconsole/internal/validation"
)

// PageSize is the number of rows the catalog API serves per page. Row
// numbering relies on it; it is never derived from a response.
const PageSize = 15

// ErrValidation wraps the *validation.FieldError that blocked a save.
var ErrValidation = errors.New("crud: validation failed")

type Mode int

const (
	ModalClosed Mode = iota
	ModalCreate
	ModalEdit
)

// Modal is the add/edit dialog state. ID is set only in ModalEdit.
type Modal struct {
	Mode Mode
	ID   int64
}

func (m Modal) Open() bool {
	return m.Mode != ModalClosed
}

// PageItem is one entry of the pagination control.
type PageItem struct {
	Number int
	Active bool
}

// State is the part of a controller that survives between requests.
type State struct {
	Page            int
	Search          string
	Modal           Modal
	Form            Form
	PendingDeleteID *int64
}

// ReloadFunc refreshes the list after a successful mutation.
type ReloadFunc func(ctx context.Context, page int, search string) error

// Controller owns one entity screen. It is not safe for concurrent use;
// each screen instance gets its own controller.
type Controller[E any] struct {
	schema Schema[E]
	api    API
	msgs   Translator

	Records         []E
	Options         map[string][]Option
	SearchTerm      string
	CurrentPage     int
	LastPage        int
	Modal           Modal
	Form            Form
	PendingDeleteID *int64
	// Alert is the last blocking message shown to the user.
	Alert string

	// OnReload overrides how the list is refreshed after a mutation.
	// Nil means Load with the current page and search term.
	OnReload ReloadFunc
}

func New[E any](schema Schema[E], api API, msgs Translator) *Controller[E] {
	c := &Controller[E]{
		schema:      schema,
		api:         api,
		msgs:        msgs,
		CurrentPage: 1,
		LastPage:    1,
	}
	c.Form = c.blankForm()
	return c
}

func (c *Controller[E]) Schema() Schema[E] {
	return c.schema
}

// Restore re-applies state carried over from a previous request without
// touching the network.
func (c *Controller[E]) Restore(s State) {
	if s.Page > 0 {
		c.CurrentPage = s.Page
	}
	c.SearchTerm = s.Search
	c.Modal = s.Modal
	c.Form = c.blankForm()
	for k, v := range s.Form {
		c.Form[k] = v
	}
	if s.PendingDeleteID != nil {
		id := *s.PendingDeleteID
		c.PendingDeleteID = &id
	}
}

// Load fetches one page of the collection filtered by keyword. On success
// records, page numbers and options are replaced together; on failure the
// state is left untouched and the error is only logged.
func (c *Controller[E]) Load(ctx context.Context, page int, keyword string) error {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", keyword)

	body, err := c.api.Get(ctx, c.schema.Path, q)
	if err != nil {
		log.Printf("crud: load failed path=%s page=%d search=%q err=%v", c.schema.Path, page, keyword, err)
		return fmt.Errorf("load %s page %d: %w", c.schema.Path, page, err)
	}

	listing, err := c.schema.Decode(body)
	if err != nil {
		log.Printf("crud: load failed path=%s page=%d search=%q err=%v", c.schema.Path, page, keyword, err)
		return fmt.Errorf("load %s page %d: %w", c.schema.Path, page, err)
	}

	c.Records = listing.Page.Data
	c.CurrentPage = listing.Page.CurrentPage
	c.LastPage = listing.Page.LastPage
	if listing.Options != nil {
		c.Options = listing.Options
	}
	return nil
}

// SetSearchTerm records typed search text. Nothing is fetched until Search.
func (c *Controller[E]) SetSearchTerm(s string) {
	c.SearchTerm = s
}

// Search restarts from page 1 with keyword. An empty keyword lists all.
func (c *Controller[E]) Search(ctx context.Context, keyword string) error {
	c.SearchTerm = keyword
	return c.Load(ctx, 1, keyword)
}

// ChangePage loads page n with the current search term. n is not checked
// against LastPage.
func (c *Controller[E]) ChangePage(ctx context.Context, n int) error {
	return c.Load(ctx, n, c.SearchTerm)
}

func (c *Controller[E]) OpenCreate() {
	c.Modal = Modal{Mode: ModalCreate}
	c.Form = c.blankForm()
	c.Alert = ""
}

// OpenEdit pre-fills the form with e as it was when the list was loaded.
func (c *Controller[E]) OpenEdit(e E) {
	c.Modal = Modal{Mode: ModalEdit, ID: c.schema.ID(e)}
	c.Form = c.blankForm()
	for k, v := range c.schema.Bind(e) {
		c.Form[k] = v
	}
	c.Alert = ""
}

// OpenEditByID opens the edit form for the loaded record with id. It
// reports false when no such record is on the current page.
func (c *Controller[E]) OpenEditByID(id int64) bool {
	for _, e := range c.Records {
		if c.schema.ID(e) == id {
			c.OpenEdit(e)
			return true
		}
	}
	return false
}

// CloseModal dismisses the form without saving. It is for callers that
// keep one controller across interactions; a request-per-interaction
// caller such as the console dismisses by navigating to the list.
func (c *Controller[E]) CloseModal() {
	c.Modal = Modal{}
	c.Alert = ""
}

// SetField records typed input for one form field.
func (c *Controller[E]) SetField(name, value string) {
	c.Form[name] = value
}

// Save validates the form and creates or updates the record. A validation
// failure or API error leaves the modal open with the input intact.
func (c *Controller[E]) Save(ctx context.Context) error {
	if !c.Modal.Open() {
		return errors.New("crud: save called with no open form")
	}

	payload := c.schema.Input(c.Form)
	if fe := validation.First(payload); fe != nil {
		c.Alert = c.fieldMessage(*fe)
		return fmt.Errorf("%w: %w", ErrValidation, fe)
	}

	var err error
	if c.Modal.Mode == ModalEdit {
		err = c.api.Put(ctx, c.itemPath(c.Modal.ID), payload)
	} else {
		err = c.api.Post(ctx, c.schema.Path, payload)
	}
	if err != nil {
		log.Printf("crud: save failed path=%s mode=%d id=%d err=%v", c.schema.Path, c.Modal.Mode, c.Modal.ID, err)
		c.Alert = c.text("save_failed", map[string]any{"Noun": c.text(c.schema.Noun, nil)})
		return fmt.Errorf("save %s: %w", c.schema.Path, err)
	}

	c.Modal = Modal{}
	c.Alert = ""
	_ = c.reload(ctx)
	return nil
}

// ConfirmDelete opens the delete prompt for id.
func (c *Controller[E]) ConfirmDelete(id int64) {
	c.PendingDeleteID = &id
	c.Alert = ""
}

// CancelDelete dismisses the delete prompt. Like CloseModal it serves
// callers that keep the controller between interactions.
func (c *Controller[E]) CancelDelete() {
	c.PendingDeleteID = nil
	c.Alert = ""
}

func (c *Controller[E]) DeletePromptOpen() bool {
	return c.PendingDeleteID != nil
}

// DeleteConfirmed deletes the pending record. On failure the prompt stays
// open with the pending id kept for a retry.
func (c *Controller[E]) DeleteConfirmed(ctx context.Context) error {
	if c.PendingDeleteID == nil {
		return nil
	}
	id := *c.PendingDeleteID

	if err := c.api.Delete(ctx, c.itemPath(id)); err != nil {
		log.Printf("crud: delete failed path=%s id=%d err=%v", c.schema.Path, id, err)
		c.Alert = c.text("delete_failed", map[string]any{"Noun": c.text(c.schema.Noun, nil)})
		return fmt.Errorf("delete %s: %w", c.itemPath(id), err)
	}

	c.PendingDeleteID = nil
	c.Alert = ""
	_ = c.reload(ctx)
	return nil
}

// RowNumber is the 1-based position of row i across all pages.
func (c *Controller[E]) RowNumber(i int) int {
	return (c.CurrentPage-1)*PageSize + i + 1
}

// PageItems lists every page from 1 to LastPage, or nothing when there is
// at most one page.
func (c *Controller[E]) PageItems() []PageItem {
	if c.LastPage <= 1 {
		return nil
	}
	items := make([]PageItem, 0, c.LastPage)
	for n := 1; n <= c.LastPage; n++ {
		items = append(items, PageItem{Number: n, Active: n == c.CurrentPage})
	}
	return items
}

// ModalTitle is "Add X" or "Edit X" for the open modal.
func (c *Controller[E]) ModalTitle() string {
	title := c.text(c.schema.Title, nil)
	if c.Modal.Mode == ModalEdit {
		return c.text("modal_edit", map[string]any{"Title": title})
	}
	return c.text("modal_add", map[string]any{"Title": title})
}

func (c *Controller[E]) reload(ctx context.Context) error {
	if c.OnReload != nil {
		return c.OnReload(ctx, c.CurrentPage, c.SearchTerm)
	}
	return c.Load(ctx, c.CurrentPage, c.SearchTerm)
}

func (c *Controller[E]) itemPath(id int64) string {
	return c.schema.Path + "/" + strconv.FormatInt(id, 10)
}

func (c *Controller[E]) blankForm() Form {
	f := make(Form, len(c.schema.Fields))
	for _, field := range c.schema.Fields {
		f[field.Name] = ""
	}
	return f
}

func (c *Controller[E]) fieldMessage(fe validation.FieldError) string {
	label := fe.Field
	if field, ok := c.schema.Field(fe.Field); ok {
		label = c.text(field.Label, nil)
	}

	switch fe.Tag {
	case "required", "notblank":
		return c.text("field_required", map[string]any{"Field": label})
	case "simple_email":
		return c.text("invalid_email", nil)
	case "phone_digits":
		return c.text("invalid_phone", nil)
	default:
		return c.text("field_invalid", map[string]any{"Field": label})
	}
}

func (c *Controller[E]) text(id string, data map[string]any) string {
	if c.msgs == nil {
		return id
	}
	return c.msgs.Text(id, data)
}
