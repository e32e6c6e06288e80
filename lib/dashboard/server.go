package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"launchboard/lib/aggregate"
	"launchboard/lib/fetch"
	"launchboard/lib/render"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

type ServerOptions struct {
	// rows of the raw table on a page, every row when <= 0
	Limit int
	Svg   render.SvgOptions
}

func DefaultServerOptions() ServerOptions {
	return ServerOptions{Limit: 100, Svg: render.DefaultSvgOptions()}
}

type Server struct {
	dashboard Dashboard
	opts      ServerOptions
}

func NewServer(d Dashboard, opts ServerOptions) Server {
	return Server{dashboard: d, opts: opts}
}

type navEntry struct {
	Name   string
	Label  string
	Active bool
}

type errorPanel struct {
	Title   string
	Message string
}

type page struct {
	Label    string
	Sections []navEntry
	View     View
	Table    template.HTML
	Chart    template.HTML
	Infobox  template.HTML
	Error    *errorPanel
}

func newPage(section Section) page {
	p := page{Label: section.Label()}
	for _, s := range Sections {
		p.Sections = append(p.Sections, navEntry{
			Name:   string(s),
			Label:  s.Label(),
			Active: s == section,
		})
	}
	return p
}

// Handler routes:
//
//	GET /                    raw section
//	GET /section/{name}      section page, ?rocket= selects the rocket
//	GET /chart/{name}[.svg]  section chart as SVG, ?rocket= selects the rocket
//	GET /healthz
func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		s.servePage(w, r, SectionRaw)
	})
	mux.HandleFunc("GET /section/{name}", func(w http.ResponseWriter, r *http.Request) {
		section, err := ParseSection(r.PathValue("name"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		s.servePage(w, r, section)
	})
	mux.HandleFunc("GET /chart/{name}", s.serveChart)
	return mux
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRocket):
		return http.StatusBadRequest
	case errors.Is(err, aggregate.ErrUnknownColumn):
		return http.StatusUnprocessableEntity
	}
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s Server) build(r *http.Request, section Section, infobox bool) (View, error) {
	ctx := r.Context()
	dataset, err := s.dashboard.Load(ctx)
	if err != nil {
		return View{}, err
	}
	return s.dashboard.Build(ctx, dataset, section, Options{
		Rocket:  r.URL.Query().Get("rocket"),
		Infobox: infobox,
	})
}

func (s Server) servePage(w http.ResponseWriter, r *http.Request, section Section) {
	ctx := r.Context()
	p := newPage(section)
	status := http.StatusOK

	view, err := s.build(r, section, true)
	if err != nil {
		slog.WarnContext(ctx, "failed to build section", "section", section, "err", err)
		status = statusOf(err)
		p.Error = &errorPanel{
			Title:   "Could not load " + section.Label(),
			Message: err.Error(),
		}
	} else {
		err = s.fill(&p, view)
		if err != nil {
			slog.ErrorContext(ctx, "failed to render section", "section", section, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	buff := bytes.NewBuffer(nil)
	err = pageTemplate.Execute(buff, p)
	if err != nil {
		slog.ErrorContext(ctx, "failed to execute template", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buff.Bytes())
}

func (s Server) fill(p *page, view View) error {
	p.View = view
	if view.Table != nil {
		// go-pretty escapes cell text in its html output
		p.Table = template.HTML(render.DataTable(nil, *view.Table, view.Columns, s.opts.Limit).RenderHTML())
	}
	if view.Infobox != nil {
		p.Infobox = template.HTML(render.InfoboxTable(nil, *view.Infobox).RenderHTML())
	}
	if view.Chart != nil {
		buff := bytes.NewBuffer(nil)
		err := render.WriteSvg(buff, *view.Chart, s.opts.Svg)
		if err != nil {
			return err
		}
		p.Chart = template.HTML(buff.String())
	}
	return nil
}

func (s Server) serveChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section, err := ParseSection(strings.TrimSuffix(r.PathValue("name"), ".svg"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	view, err := s.build(r, section, false)
	if err != nil {
		slog.WarnContext(ctx, "failed to build chart", "section", section, "err", err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	if view.Chart == nil {
		http.Error(w, section.Label()+" has no chart", http.StatusNotFound)
		return
	}

	buff := bytes.NewBuffer(nil)
	err = render.WriteSvg(buff, *view.Chart, s.opts.Svg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Length", strconv.Itoa(buff.Len()))
	w.Write(buff.Bytes())
}
