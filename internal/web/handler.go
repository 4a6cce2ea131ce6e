package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sander-remitly/coin-change/internal/logger"
	"github.com/sander-remitly/coin-change/internal/models"
	"go.uber.org/zap"
)

//go:embed templates/* static/*
var content embed.FS

// Handler handles web UI requests
type Handler struct {
	templates *template.Template
	static    fs.FS
}

// indexData feeds templates/index.html.
type indexData struct {
	Presets []models.Preset
}

// NewHandler creates a new web handler
func NewHandler() (*Handler, error) {
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static filesystem: %w", err)
	}

	return &Handler{
		templates: tmpl,
		static:    staticFS,
	}, nil
}

// SetupRoutes adds web UI routes to the router
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))
	r.Get("/", h.HandleIndex)
}

// HandleIndex serves the main UI page
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{Presets: models.GetPresets()}
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.Log.Error("Error rendering template", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
