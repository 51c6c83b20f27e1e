package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/marketplace/internal/model"
)

// SaleService is the slice of service.Marketplace the purchase routes use.
type SaleService interface {
	Purchase(ctx context.Context, token string, storeID, productID, quantity int64) (*model.Sale, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
}

// SaleHandler serves purchases and the sales ledger.
type SaleHandler struct {
	svc    SaleService
	logger *slog.Logger
}

// NewSaleHandler creates a SaleHandler.
func NewSaleHandler(svc SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{svc: svc, logger: logger}
}

type purchaseRequest struct {
	Quantity int64 `json:"quantity"`
}

// HandlePurchase buys quantity units for the caller.
//
// HTTP: POST /api/stores/{storeID}/products/{productID}/purchases
// Auth: Required
// REQUEST BODY: {"quantity": 2}
// RESPONSE: 201 with the sale, including the unit price paid
func (h *SaleHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	sale, err := h.svc.Purchase(r.Context(), sessionToken(r), storeID, productID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

// HandleList returns every sale in id order.
//
// HTTP: GET /api/sales
func (h *SaleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(sales))
}
