package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/etnz/bluechip"
	"github.com/etnz/bluechip/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed page.html
var pageFS embed.FS

var page = template.Must(template.ParseFS(pageFS, "page.html"))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// pageData is what page.html displays.
type pageData struct {
	Content   template.HTML
	Positions []bluechip.Position
	Error     string
}

// GET /
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.view(r.Context())
	if consolidate, _ := strconv.ParseBool(r.URL.Query().Get("consolidate")); consolidate {
		v = v.Consolidate()
	}

	var content bytes.Buffer
	if err := markdown.Convert([]byte(renderer.RenderView(v)), &content); err != nil {
		s.log.Error().Err(err).Msg("Failed to convert markdown")
		http.Error(w, "Failed to render the portfolio", http.StatusInternalServerError)
		return
	}

	data := pageData{
		// goldmark omits raw HTML unless WithUnsafe is set.
		Content:   template.HTML(content.String()),
		Positions: v.State().Positions,
		Error:     r.URL.Query().Get("error"),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render page")
	}
}

// POST /form/positions
func (s *Server) handleFormAdd(w http.ResponseWriter, r *http.Request) {
	_, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
		quantity, err := bluechip.ParseQuantity(r.FormValue("quantity"))
		if err != nil {
			return st, invalid(err)
		}
		price, err := decimal.NewFromString(r.FormValue("purchase_price"))
		if err != nil {
			return st, invalid(err)
		}
		return st.AddPosition(r.FormValue("ticker"), quantity, price)
	})
	s.redirect(w, r, err)
}

// POST /form/positions/{index}/delete
func (s *Server) handleFormRemove(w http.ResponseWriter, r *http.Request) {
	_, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			return st, invalid(err)
		}
		return st.RemovePosition(index)
	})
	s.redirect(w, r, err)
}

// POST /form/cash and POST /form/invested
func (s *Server) handleFormAmount(set func(bluechip.State, decimal.Decimal) bluechip.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := s.apply(func(st bluechip.State) (bluechip.State, error) {
			value, err := decimal.NewFromString(r.FormValue("value"))
			if err != nil {
				return st, invalid(err)
			}
			return set(st, value), nil
		})
		s.redirect(w, r, err)
	}
}

// redirect goes back to the page, with the error if any.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, err error) {
	target := "/"
	if err != nil {
		target = "/?error=" + template.URLQueryEscaper(err.Error())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
