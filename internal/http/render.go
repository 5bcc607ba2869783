package http

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/jmehdipour/custdir/internal/model"
	"github.com/jmehdipour/custdir/internal/web"
	"github.com/labstack/echo/v4"
)

const (
	customersPage = "customers.html"
	customerPage  = "customer.html"
)

// templateRenderer holds one template set per page, each with the shared base layout.
type templateRenderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*templateRenderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{customersPage, customerPage} {
		t, err := template.New(page).ParseFS(web.Templates, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pages[page] = t
	}
	return &templateRenderer{pages: pages}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

type listView struct {
	Customers []model.CustomerSummary
	Limit     int
	Offset    int
}

func (v listView) PrevOffset() int { return max(v.Offset-v.Limit, 0) }
func (v listView) NextOffset() int { return v.Offset + v.Limit }

type field struct {
	Column string
	Value  string
}

type customerView struct {
	Company string
	Fields  []field
}

// newCustomerView lists the columns alphabetically with id first.
func newCustomerView(rec model.Record) customerView {
	cols := make([]string, 0, len(rec))
	for col := range rec {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "id" || cols[j] == "id" {
			return cols[i] == "id"
		}
		return cols[i] < cols[j]
	})

	fields := make([]field, 0, len(cols))
	for _, col := range cols {
		val := "-"
		if v := rec[col]; v != nil {
			val = fmt.Sprint(v)
		}
		fields = append(fields, field{Column: col, Value: val})
	}
	return customerView{Company: rec.Company(), Fields: fields}
}
