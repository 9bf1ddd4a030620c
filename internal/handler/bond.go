package handler

import (
	"net/http"

	"treasury_go/internal/service"

	"github.com/go-chi/chi/v5"
)

// BondHandler serves the quote read endpoints and seed initialization.
type BondHandler struct {
	bondSvc *service.BondService
}

// NewBondHandler creates a BondHandler.
func NewBondHandler(bondSvc *service.BondService) *BondHandler {
	return &BondHandler{bondSvc: bondSvc}
}

// List handles GET /api/treasury/bonds.
func (h *BondHandler) List(w http.ResponseWriter, r *http.Request) {
	bonds, err := h.bondSvc.All()
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bonds)
}

// Get handles GET /api/treasury/bonds/{cusip}.
func (h *BondHandler) Get(w http.ResponseWriter, r *http.Request) {
	cusip := chi.URLParam(r, "cusip")

	bond, err := h.bondSvc.ByCusip(cusip)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bond)
}

// Initialize handles POST /api/treasury/initialize. Seeding is idempotent:
// a populated store is left untouched.
func (h *BondHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	if err := h.bondSvc.Initialize(); err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "data initialized"})
}
