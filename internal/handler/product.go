package handler

import (
	"net/http"

	"github.com/sakif/marketplace/internal/apperror"
)

type addProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type stockRequest struct {
	Delta int64 `json:"delta"`
}

type stockResponse struct {
	StoreID   int64 `json:"storeId"`
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type transferRequest struct {
	DestinationStoreID *int64 `json:"destinationStoreId"`
}

type existsResponse struct {
	StoreID   int64 `json:"storeId"`
	ProductID int64 `json:"productId"`
	Exists    bool  `json:"exists"`
}

// HandleSearchProducts searches product names across every store.
//
// HTTP: GET /api/products?q=Picanha
func (h *StoreHandler) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(products))
}

// HandleSearchStoreProducts searches product names inside one store.
//
// HTTP: GET /api/stores/{storeID}/products?q=Picanha
func (h *StoreHandler) HandleSearchStoreProducts(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	products, err := h.svc.SearchProductsInStore(r.Context(), r.URL.Query().Get("q"), storeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(products))
}

// HandleAddProduct appends a product to a store the caller owns.
//
// HTTP: POST /api/stores/{storeID}/products
// Auth: Required
// REQUEST BODY: {"name": "Picanha Maturada", "price": 89.9}
func (h *StoreHandler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req addProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.svc.AddProduct(r.Context(), sessionToken(r), storeID, req.Name, req.Price)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// HandleProductExists reports whether a live product sits in the slot.
//
// HTTP: GET /api/stores/{storeID}/products/{productID}
func (h *StoreHandler) HandleProductExists(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, existsResponse{
		StoreID:   storeID,
		ProductID: productID,
		Exists:    h.svc.ProductExists(r.Context(), storeID, productID),
	})
}

// HandleAddStock adjusts a product's stock by delta.
//
// HTTP: POST /api/stores/{storeID}/products/{productID}/stock
// Auth: Required
// REQUEST BODY: {"delta": 10}
func (h *StoreHandler) HandleAddStock(w http.ResponseWriter, r *http.Request) {
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

	var req stockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	qty, err := h.svc.AddStock(r.Context(), sessionToken(r), storeID, productID, req.Delta)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{StoreID: storeID, ProductID: productID, Quantity: qty})
}

// HandleTransfer moves a product to another store the caller owns and
// returns it under its new id.
//
// HTTP: POST /api/stores/{storeID}/products/{productID}/transfer
// Auth: Required
// REQUEST BODY: {"destinationStoreId": 1}
func (h *StoreHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
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

	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.DestinationStoreID == nil {
		writeError(w, h.logger, apperror.ValidationFailed("destinationStoreId", "destinationStoreId is required"))
		return
	}

	moved, err := h.svc.TransferProduct(r.Context(), sessionToken(r), storeID, *req.DestinationStoreID, productID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}
