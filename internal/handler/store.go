package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/marketplace/internal/model"
)

// StoreService is the slice of service.Marketplace the store and product
// routes use.
type StoreService interface {
	CreateStore(ctx context.Context, token, name string) (*model.Store, error)
	IsOwner(ctx context.Context, token string, storeID int64) (bool, error)
	GetStore(ctx context.Context, storeID int64) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
	SearchStores(ctx context.Context, substr string) ([]model.Store, error)

	AddProduct(ctx context.Context, token string, storeID int64, name string, price float64) (*model.Product, error)
	AddStock(ctx context.Context, token string, storeID, productID, delta int64) (int64, error)
	TransferProduct(ctx context.Context, token string, srcStoreID, dstStoreID, productID int64) (*model.Product, error)
	ProductExists(ctx context.Context, storeID, productID int64) bool
	SearchProducts(ctx context.Context, substr string) ([]model.Product, error)
	SearchProductsInStore(ctx context.Context, substr string, storeID int64) ([]model.Product, error)
}

// StoreHandler serves stores and the products inside them.
type StoreHandler struct {
	svc    StoreService
	logger *slog.Logger
}

// NewStoreHandler creates a StoreHandler.
func NewStoreHandler(svc StoreService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{svc: svc, logger: logger}
}

type createStoreRequest struct {
	Name string `json:"name"`
}

type ownerResponse struct {
	StoreID int64 `json:"storeId"`
	Owner   bool  `json:"owner"`
}

// HandleList returns every store in id order.
//
// HTTP: GET /api/stores
func (h *StoreHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.ListStores(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoreViews(stores))
}

// HandleSearch returns the stores whose name contains ?name=.
//
// HTTP: GET /api/stores/search?name=Carnes
func (h *StoreHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.SearchStores(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoreViews(stores))
}

// HandleCreate opens a store owned by the caller.
//
// HTTP: POST /api/stores
// Auth: Required
// REQUEST BODY: {"name": "Casa de Carnes"}
func (h *StoreHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	store, err := h.svc.CreateStore(r.Context(), sessionToken(r), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStoreView(*store))
}

// HandleGet returns one store with its product slots.
//
// HTTP: GET /api/stores/{storeID}
func (h *StoreHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	store, err := h.svc.GetStore(r.Context(), storeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoreView(*store))
}

// HandleOwner reports whether the caller owns the store. Unknown stores
// answer false, not 404.
//
// HTTP: GET /api/stores/{storeID}/owner
// Auth: Required
func (h *StoreHandler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	owner, err := h.svc.IsOwner(r.Context(), sessionToken(r), storeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerResponse{StoreID: storeID, Owner: owner})
}
