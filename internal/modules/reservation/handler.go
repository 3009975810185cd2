package reservation

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the reservation endpoints that carry no stock
// effect: creating, approving, cancelling, and the return
// request/reject pair. Payment, pickup, and return approval live in
// the checkout module because they mutate the catalog.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/reservations", func(r chi.Router) {
		r.Post("/", h.create)                             // POST   /api/v1/reservations
		r.Get("/", h.list)                                // GET    /api/v1/reservations?status=
		r.Get("/{id}", h.get)                             // GET    /api/v1/reservations/{id}
		r.Post("/{id}/approve", h.approve)                // POST   /api/v1/reservations/{id}/approve
		r.Post("/{id}/return-request", h.requestReturn)   // POST   /api/v1/reservations/{id}/return-request
		r.Post("/{id}/return-reject", h.rejectReturn)     // POST   /api/v1/reservations/{id}/return-reject
		r.Delete("/{id}", h.cancel)                       // DELETE /api/v1/reservations/{id}
		r.Get("/student/{student_id}", h.listByStudent)   // GET    /api/v1/reservations/student/{student_id}
		r.Get("/bundle/{bundle_id}", h.listByBundle)      // GET    /api/v1/reservations/bundle/{bundle_id}
	})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rv, err := h.service.Create(r.Context(), req)
	if err != nil {
		code := http.StatusBadRequest
		if strings.Contains(err.Error(), "insufficient stock") {
			code = http.StatusUnprocessableEntity
		} else if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, rv)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		respond(w, http.StatusOK, h.service.ListByStatus(Status(status)))
		return
	}
	respond(w, http.StatusOK, h.service.ListAll())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rv, found := h.service.Get(id)
	if !found {
		respond(w, http.StatusNotFound, map[string]string{"error": "reservation not found"})
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if !h.service.Approve(r.Context(), id) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "reservation not found or not PENDING"})
		return
	}
	respondReservation(w, h.service, id)
}

func (h *Handler) requestReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.service.RequestReturn(r.Context(), id, req.Reason) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "reservation not COMPLETED or outside the return window"})
		return
	}
	respondReservation(w, h.service, id)
}

func (h *Handler) rejectReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.service.RejectReturn(r.Context(), id, req.Reason) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "no return request pending on this reservation"})
		return
	}
	respondReservation(w, h.service, id)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	reason := r.URL.Query().Get("reason")
	if !h.service.Cancel(r.Context(), id, reason) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "reservation not found or not cancellable"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "reservation cancelled"})
}

func (h *Handler) listByStudent(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ListByStudent(chi.URLParam(r, "student_id")))
}

func (h *Handler) listByBundle(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.ListByBundle(chi.URLParam(r, "bundle_id")))
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid reservation id"})
		return 0, false
	}
	return id, true
}

func respondReservation(w http.ResponseWriter, s Service, id int) {
	rv, _ := s.Get(id)
	respond(w, http.StatusOK, rv)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
