// Package locale loads the console's UI message catalog and hands out
// per-request translators.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog holds every parsed message file.
type Catalog struct {
	bundle      *i18n.Bundle
	defaultLang string
}

// NewCatalog parses the embedded message files. defaultLang is used when a
// request carries no usable Accept-Language.
func NewCatalog(defaultLang string) (*Catalog, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(name)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	return &Catalog{bundle: bundle, defaultLang: defaultLang}, nil
}

// Languages lists the tags with a loaded message file.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// For returns a translator for the given Accept-Language values, falling
// back to the catalog default.
func (c *Catalog) For(acceptLanguage ...string) *Messages {
	langs := append(append([]string{}, acceptLanguage...), c.defaultLang)
	return &Messages{
		loc:  i18n.NewLocalizer(c.bundle, langs...),
		lang: c.match(langs),
	}
}

// match picks the loaded language that best serves langs, as a base
// language code.
func (c *Catalog) match(langs []string) string {
	var wanted []language.Tag
	for _, l := range langs {
		tags, _, err := language.ParseAcceptLanguage(l)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}
	tag, _, _ := language.NewMatcher(c.bundle.LanguageTags()).Match(wanted...)
	base, _ := tag.Base()
	return base.String()
}

// Messages translates message IDs for one request.
type Messages struct {
	loc  *i18n.Localizer
	lang string
}

// Lang is the base language code the messages render in.
func (m *Messages) Lang() string {
	return m.lang
}

// Text renders id with data. Unknown IDs render as the ID itself so a
// missing translation never breaks a page.
func (m *Messages) Text(id string, data map[string]any) string {
	out, err := m.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("locale: missing message id=%s err=%v", id, err)
		return id
	}
	return out
}

// Get renders id without template data; templates call it directly.
func (m *Messages) Get(id string) string {
	return m.Text(id, nil)
}
