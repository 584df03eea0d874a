package console

import (
	"net/http"
	"net/url"
	"strconv"

	"bookconsole/internal/crud"
	"bookconsole/internal/locale"
	"bookconsole/internal/session"
)

// chrome is the part of every page the layout renders.
type chrome struct {
	msgs     *locale.Messages
	Lang     string
	Title    string
	SignedIn bool
	// LangParam is the visitor's explicit ?lang= choice, carried by every
	// link and form so it sticks across navigation.
	LangParam string
	CSRF      string
}

func newChrome(r *http.Request, msgs *locale.Messages, titleID string, signedIn bool) chrome {
	return chrome{
		msgs:      msgs,
		Lang:      msgs.Lang(),
		Title:     msgs.Get(titleID),
		SignedIn:  signedIn,
		LangParam: langParam(r),
		CSRF:      session.CSRFTokenFrom(r.Context()),
	}
}

// T translates a message ID from a template.
func (c chrome) T(id string) string {
	return c.msgs.Get(id)
}

// Link returns path with the carried language choice.
func (c chrome) Link(path string) string {
	return withLang(path, c.LangParam)
}

type listView struct {
	chrome
	Base      string
	CreateURL string
	AddLabel  string
	Search    string
	Page      int
	Headers   []string
	Rows      []rowView
	Pages     []pageLink
	Alert     string
	Modal     *modalView
	Delete    *deleteView
}

// ColSpan covers the number and action columns too.
func (v *listView) ColSpan() int {
	return len(v.Headers) + 2
}

type rowView struct {
	Number    int
	Cells     []string
	EditURL   string
	DeleteURL string
}

type pageLink struct {
	Number int
	Active bool
	URL    string
}

type modalView struct {
	Title  string
	Action string
	Mode   string
	ID     int64
	Fields []fieldView
	Alert  string
	Close  string
	Page   int
	Search string
}

type fieldView struct {
	Name        string
	Label       string
	Kind        string
	Value       string
	Required    bool
	Placeholder string
	Options     []optionView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type deleteView struct {
	ID     int64
	Title  string
	Body   string
	Action string
	Close  string
	Alert  string
	Page   int
	Search string
}

var kindNames = map[crud.FieldKind]string{
	crud.KindText:     "text",
	crud.KindTextArea: "textarea",
	crud.KindEmail:    "email",
	crud.KindTel:      "tel",
	crud.KindSelect:   "select",
}

func (sc *screen[E]) render(w http.ResponseWriter, r *http.Request, c *crud.Controller[E], msgs *locale.Messages, status int) {
	schema := c.Schema()
	lang := langParam(r)
	base := sc.listURL(lang, c.CurrentPage, c.SearchTerm, nil)
	title := msgs.Get(schema.Title)

	view := &listView{
		chrome:    newChrome(r, msgs, schema.Screen, true),
		Base:      "/" + sc.slug,
		CreateURL: sc.listURL(lang, c.CurrentPage, c.SearchTerm, url.Values{"modal": {"create"}}),
		AddLabel:  msgs.Text("modal_add", map[string]any{"Title": title}),
		Search:    c.SearchTerm,
		Page:      c.CurrentPage,
	}

	for _, col := range schema.Columns {
		view.Headers = append(view.Headers, msgs.Get(col.Header))
	}
	for i, rec := range c.Records {
		id := strconv.FormatInt(schema.ID(rec), 10)
		row := rowView{
			Number:    c.RowNumber(i),
			EditURL:   sc.listURL(lang, c.CurrentPage, c.SearchTerm, url.Values{"modal": {"edit"}, "id": {id}}),
			DeleteURL: sc.listURL(lang, c.CurrentPage, c.SearchTerm, url.Values{"delete": {id}}),
		}
		for _, col := range schema.Columns {
			row.Cells = append(row.Cells, col.Value(rec))
		}
		view.Rows = append(view.Rows, row)
	}
	for _, p := range c.PageItems() {
		view.Pages = append(view.Pages, pageLink{
			Number: p.Number,
			Active: p.Active,
			URL:    sc.listURL(lang, p.Number, c.SearchTerm, nil),
		})
	}

	switch {
	case c.Modal.Open():
		view.Modal = sc.modalView(c, msgs, withLang("/"+sc.slug+"/save", lang), base)
	case c.DeletePromptOpen():
		view.Delete = &deleteView{
			ID:     *c.PendingDeleteID,
			Title:  msgs.Get("confirm_delete_title"),
			Body:   msgs.Text("confirm_delete_body", map[string]any{"Noun": msgs.Get(schema.Noun)}),
			Action: withLang("/"+sc.slug+"/delete", lang),
			Close:  base,
			Alert:  c.Alert,
			Page:   c.CurrentPage,
			Search: c.SearchTerm,
		}
	default:
		view.Alert = c.Alert
	}

	sc.srv.render(w, "list.html", status, view)
}

func (sc *screen[E]) modalView(c *crud.Controller[E], msgs *locale.Messages, action, closeURL string) *modalView {
	m := &modalView{
		Title:  c.ModalTitle(),
		Action: action,
		Mode:   "create",
		Alert:  c.Alert,
		Close:  closeURL,
		Page:   c.CurrentPage,
		Search: c.SearchTerm,
	}
	if c.Modal.Mode == crud.ModalEdit {
		m.Mode = "edit"
		m.ID = c.Modal.ID
	}

	for _, f := range c.Schema().Fields {
		label := msgs.Get(f.Label)
		fv := fieldView{
			Name:     f.Name,
			Label:    label,
			Kind:     kindNames[f.Kind],
			Value:    c.Form.Get(f.Name),
			Required: f.Required,
		}
		if f.Kind == crud.KindSelect {
			fv.Placeholder = msgs.Text("select_placeholder", map[string]any{"Field": label})
			for _, o := range c.Options[f.Options] {
				fv.Options = append(fv.Options, optionView{
					Value:    o.Value,
					Label:    o.Label,
					Selected: o.Value == fv.Value,
				})
			}
		}
		m.Fields = append(m.Fields, fv)
	}
	return m
}
