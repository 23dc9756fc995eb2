package handlers

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/format"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/model"
	"CaseTrack/internal/money"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFuncs = template.FuncMap{
	"badgeClass": badgeClass,
	"usd":        money.FormatUSD,
	"orNA":       format.OrNA,
	"deref":      format.Deref,
	"formatDate": format.Date,
	"formatTime": format.Time,
}

var (
	indexTmpl = template.Must(template.New("index.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", "templates/index.html"))
	caseTmpl  = template.Must(template.New("case.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", "templates/case.html"))
)

// PageHandler — публичные HTML-страницы.
type PageHandler struct {
	Lookup *lookup.Service
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewPageHandler(lookupSvc *lookup.Service, logger *zap.SugaredLogger, cfg *config.Config) *PageHandler {
	return &PageHandler{Lookup: lookupSvc, Logger: logger, Config: cfg}
}

type pageData struct {
	Title string
	Case  *model.Case
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, indexTmpl, http.StatusOK, pageData{Title: "Case Status Lookup"})
}

// Case показывает дело. Отсутствие и ошибка хранилища выглядят одинаково.
func (h *PageHandler) Case(w http.ResponseWriter, r *http.Request) {
	number, err := caseNumberParam(r)
	if err != nil {
		h.render(w, caseTmpl, http.StatusNotFound, pageData{Title: "Case Not Found"})
		return
	}
	c, err := h.Lookup.FindByCaseNumber(r.Context(), number)
	if err != nil {
		h.render(w, caseTmpl, http.StatusNotFound, pageData{Title: "Case Not Found"})
		return
	}
	h.render(w, caseTmpl, http.StatusOK, pageData{Title: "Case " + c.CaseNumber, Case: c})
}

func (h *PageHandler) render(w http.ResponseWriter, t *template.Template, status int, data pageData) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		h.Logger.Errorw("render failed", "template", t.Name(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func badgeClass(s model.Status) string {
	switch strings.ToLower(string(s)) {
	case "active":
		return "badge-active"
	case "blocked":
		return "badge-blocked"
	case "pending":
		return "badge-pending"
	case "on hold":
		return "badge-on-hold"
	case "received":
		return "badge-received"
	}
	return "badge-unknown"
}
