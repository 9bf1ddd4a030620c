package handler

import (
	"net/http"
	"strconv"

	"treasury_go/internal/domain"
	"treasury_go/internal/service"

	"github.com/go-chi/chi/v5"
)

// TradeHandler serves the trade lifecycle endpoints.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// Book handles POST /api/treasury/trades/book. The body is the trade payload
// itself; identifier, timestamp and final status are system-assigned.
func (h *TradeHandler) Book(w http.ResponseWriter, r *http.Request) {
	var trade domain.Trade
	if err := parseJSON(r, &trade); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a valid trade")
		return
	}

	booked, err := h.tradeSvc.Book(&trade)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booked)
}

// List handles GET /api/treasury/trades with optional status, trader and
// cusip filters. Filters are mutually exclusive; status wins over trader
// over cusip when several are supplied.
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		trades []domain.Trade
		err    error
	)

	q := r.URL.Query()
	switch {
	case q.Get("status") != "":
		trades, err = h.tradeSvc.ByStatus(q.Get("status"))
	case q.Get("trader") != "":
		trades, err = h.tradeSvc.ByTrader(q.Get("trader"))
	case q.Get("cusip") != "":
		trades, err = h.tradeSvc.ByCusip(q.Get("cusip"))
	default:
		trades, err = h.tradeSvc.All()
	}
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// Get handles GET /api/treasury/trades/{id}.
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTradeID(w, r)
	if !ok {
		return
	}

	trade, err := h.tradeSvc.ByID(id)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

// Cancel handles PUT /api/treasury/trades/{id}/cancel.
func (h *TradeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTradeID(w, r)
	if !ok {
		return
	}

	trade, err := h.tradeSvc.Cancel(id)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func parseTradeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "trade id must be an integer")
		return 0, false
	}
	return id, true
}
