package receipt

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes read endpoints for the receipt register. Receipts
// are issued and progressed only by the checkout flows.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/receipts", func(r chi.Router) {
		r.Get("/", h.list)                     // GET /api/v1/receipts
		r.Get("/{id}", h.get)                  // GET /api/v1/receipts/{id}
		r.Get("/buyer/{buyer}", h.listByBuyer) // GET /api/v1/receipts/buyer/{buyer}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ListAll())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid receipt id"})
		return
	}
	rc, ok := h.service.FindByID(id)
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "receipt not found"})
		return
	}
	respond(w, http.StatusOK, rc)
}

func (h *Handler) listByBuyer(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ListByBuyer(chi.URLParam(r, "buyer")))
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
