// Package view renders the saved-record listing and manages its visibility.
//
// Rendering is split in two steps. Render turns records into a structured
// View whose items carry stable keys; a Renderer then writes that View as
// HTML or plain text. Delete actions in the markup refer to items by key and
// are dispatched through a single handler, Panel.Dispatch.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/signup/internal/record"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Item is one rendered record.
type Item struct {
	// Number is the 1-based display position ("User #n").
	Number int `json:"number"`

	// Key identifies the record for delete actions. It is "record-<id>" for
	// records with an ID and "position-<index>" for legacy records.
	Key string `json:"key"`

	Record record.Record `json:"record"`
}

// View is the rendered state of the listing.
type View struct {
	Items []Item `json:"items"`

	// Err is set when the stored list could not be read; the listing shows
	// an error state instead of items.
	Err string `json:"error,omitempty"`
}

// Empty reports whether the view shows the "no saved users" state.
func (v View) Empty() bool {
	return v.Err == "" && len(v.Items) == 0
}

// Lookup finds an item by key.
func (v View) Lookup(key string) (Item, bool) {
	for _, it := range v.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// KeyAt returns the key of the item shown as "User #number".
func (v View) KeyAt(number int) (string, bool) {
	if number < 1 || number > len(v.Items) {
		return "", false
	}
	return v.Items[number-1].Key, true
}

// Render builds the view for a record list.
func Render(list []record.Record) View {
	items := make([]Item, len(list))
	for i, r := range list {
		items[i] = Item{Number: i + 1, Key: KeyFor(i, r), Record: r}
	}
	return View{Items: items}
}

// ErrorView builds the error state for a failed load.
func ErrorView(err error) View {
	return View{Items: []Item{}, Err: err.Error()}
}

// KeyFor returns the stable key of the record at index.
func KeyFor(index int, r record.Record) string {
	if r.ID > 0 {
		return "record-" + strconv.FormatInt(r.ID, 10)
	}
	return "position-" + strconv.Itoa(index)
}

// ResolveKey returns the current index of the record identified by key, or
// -1 when no record matches.
func ResolveKey(list []record.Record, key string) int {
	for i, r := range list {
		if KeyFor(i, r) == key {
			return i
		}
	}
	return -1
}

// Renderer writes views as markup.
type Renderer struct {
	html *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{html: tmpl}, nil
}

// MustRenderer is NewRenderer for callers that treat a broken embedded
// template as a build defect.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// HTML writes the listing markup. User-supplied values are escaped.
func (r *Renderer) HTML(w io.Writer, v View) error {
	if err := r.html.ExecuteTemplate(w, "list.html.tmpl", v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Text writes a plain-text listing for terminals.
func (r *Renderer) Text(w io.Writer, v View) error {
	var b strings.Builder
	switch {
	case v.Err != "":
		fmt.Fprintf(&b, "Saved users could not be read: %s\n", v.Err)
	case len(v.Items) == 0:
		b.WriteString("No saved users.\n")
	default:
		b.WriteString("Saved users:\n")
		for _, it := range v.Items {
			fmt.Fprintf(&b, "  #%d %s <%s>, age %d [%s]\n",
				it.Number, it.Record.Name, it.Record.Email, it.Record.Age, it.Key)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
