package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/munnerz/goautoneg"
)

const (
	mimeHTML = "text/html"
	mimeJSON = "application/json"
)

// offers are tried in order; a missing or wildcard Accept picks HTML.
var offers = []string{mimeHTML, mimeJSON}

// negotiate returns the first offer matched by the highest ranked Accept clause, or "" when
// nothing acceptable is offered. Clauses with q=0 refuse a type and never match.
func negotiate(accept string) string {
	if strings.TrimSpace(accept) == "" {
		accept = "*/*"
	}
	for _, clause := range goautoneg.ParseAccept(accept) {
		if clause.Q <= 0 {
			continue
		}
		for _, offer := range offers {
			typ, sub, _ := strings.Cut(offer, "/")
			switch {
			case clause.Type == typ && clause.SubType == sub,
				clause.Type == typ && clause.SubType == "*",
				clause.Type == "*" && clause.SubType == "*":
				return offer
			}
		}
	}
	return ""
}

// format calls the renderer matching the request's Accept header, or answers 415 with an
// empty body.
func format(c echo.Context, html, json func() error) error {
	c.Response().Header().Add(echo.HeaderVary, echo.HeaderAccept)
	switch negotiate(c.Request().Header.Get(echo.HeaderAccept)) {
	case mimeHTML:
		return html()
	case mimeJSON:
		return json()
	default:
		return c.NoContent(http.StatusUnsupportedMediaType)
	}
}
