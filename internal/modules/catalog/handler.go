package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints. Stock quantities are only
// readable here: every direct stock edit goes through the audited
// adjustment flow in the checkout module.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", h.listItems)                    // GET  /api/v1/items
		r.Post("/", h.addItem)                     // POST /api/v1/items
		r.Get("/course/{course}", h.listByCourse)  // GET  /api/v1/items/course/{course}
		r.Get("/{code}", h.getItem)                // GET  /api/v1/items/{code}
		r.Get("/{code}/{size}", h.getVariant)      // GET  /api/v1/items/{code}/{size}
		r.Get("/{code}/{size}/check", h.checkStock) // GET /api/v1/items/{code}/{size}/check?qty=3
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ListAll())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	it, err := h.service.AddItem(r.Context(), req)
	if err != nil {
		code := http.StatusBadRequest
		if strings.Contains(err.Error(), "already exists") {
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, it)
}

func (h *Handler) listByCourse(w http.ResponseWriter, r *http.Request) {
	course := chi.URLParam(r, "course")
	respond(w, http.StatusOK, h.service.ListByCourse(course))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item code"})
		return
	}
	it, ok := h.service.Find(code)
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) getVariant(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item code"})
		return
	}
	it, ok := h.service.FindVariant(code, chi.URLParam(r, "size"))
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) checkStock(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item code"})
		return
	}
	qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
	if err != nil || qty <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "qty must be a positive integer"})
		return
	}
	available := h.service.ReserveCheck(code, chi.URLParam(r, "size"), qty)
	respond(w, http.StatusOK, map[string]bool{"available": available})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
