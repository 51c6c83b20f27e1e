package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/model"
)

// fakeMarketplace implements every handler service interface. It records
// the arguments it was called with and returns err (if set) or canned data.
type fakeMarketplace struct {
	err error

	gotToken     string
	gotName      string
	gotEmail     string
	gotPassword  string
	gotPrice     float64
	gotStoreID   int64
	gotProductID int64
	gotDstID     int64
	gotDelta     int64
	gotQuantity  int64
	gotQuery     string

	owner    bool
	exists   bool
	stores   []model.Store
	products []model.Product
	sales    []model.Sale
}

func (f *fakeMarketplace) Register(_ context.Context, name, email, password string) (*model.User, error) {
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	if f.err != nil {
		return nil, f.err
	}
	return &model.User{ID: 1, Name: name, Email: email, PasswordHash: "$2a$04$secret"}, nil
}

func (f *fakeMarketplace) Login(_ context.Context, email, password string) (*model.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &model.Session{Token: "0123456789abcdef0123456789abcdef", UserID: 1}, nil
}

func (f *fakeMarketplace) CreateStore(_ context.Context, token, name string) (*model.Store, error) {
	f.gotToken, f.gotName = token, name
	if f.err != nil {
		return nil, f.err
	}
	return &model.Store{ID: 0, Name: name, Owner: model.User{ID: 1, Email: "ana@example.com", PasswordHash: "$2a$04$secret"}}, nil
}

func (f *fakeMarketplace) IsOwner(_ context.Context, token string, storeID int64) (bool, error) {
	f.gotToken, f.gotStoreID = token, storeID
	return f.owner, f.err
}

func (f *fakeMarketplace) GetStore(_ context.Context, storeID int64) (*model.Store, error) {
	f.gotStoreID = storeID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Store{ID: storeID, Name: "Casa de Carnes"}, nil
}

func (f *fakeMarketplace) ListStores(context.Context) ([]model.Store, error) {
	return f.stores, f.err
}

func (f *fakeMarketplace) SearchStores(_ context.Context, substr string) ([]model.Store, error) {
	f.gotQuery = substr
	return f.stores, f.err
}

func (f *fakeMarketplace) AddProduct(_ context.Context, token string, storeID int64, name string, price float64) (*model.Product, error) {
	f.gotToken, f.gotStoreID, f.gotName, f.gotPrice = token, storeID, name, price
	if f.err != nil {
		return nil, f.err
	}
	return &model.Product{ID: 0, StoreID: storeID, Name: name, Price: price}, nil
}

func (f *fakeMarketplace) AddStock(_ context.Context, token string, storeID, productID, delta int64) (int64, error) {
	f.gotToken, f.gotStoreID, f.gotProductID, f.gotDelta = token, storeID, productID, delta
	if f.err != nil {
		return 0, f.err
	}
	return 15, nil
}

func (f *fakeMarketplace) TransferProduct(_ context.Context, token string, src, dst, productID int64) (*model.Product, error) {
	f.gotToken, f.gotStoreID, f.gotDstID, f.gotProductID = token, src, dst, productID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Product{ID: 3, StoreID: dst, Name: "Cupim"}, nil
}

func (f *fakeMarketplace) ProductExists(_ context.Context, storeID, productID int64) bool {
	f.gotStoreID, f.gotProductID = storeID, productID
	return f.exists
}

func (f *fakeMarketplace) SearchProducts(_ context.Context, substr string) ([]model.Product, error) {
	f.gotQuery = substr
	return f.products, f.err
}

func (f *fakeMarketplace) SearchProductsInStore(_ context.Context, substr string, storeID int64) ([]model.Product, error) {
	f.gotQuery, f.gotStoreID = substr, storeID
	return f.products, f.err
}

func (f *fakeMarketplace) Purchase(_ context.Context, token string, storeID, productID, quantity int64) (*model.Sale, error) {
	f.gotToken, f.gotStoreID, f.gotProductID, f.gotQuantity = token, storeID, productID, quantity
	if f.err != nil {
		return nil, f.err
	}
	return &model.Sale{ID: 1, BuyerID: 2, StoreID: storeID, ProductID: productID, Quantity: quantity, UnitPrice: 89.9}, nil
}

func (f *fakeMarketplace) ListSales(context.Context) ([]model.Sale, error) {
	return f.sales, f.err
}

// =========================================================================
// REQUEST HELPERS
// =========================================================================

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testToken = "fedcba9876543210fedcba9876543210"

// newRequest builds a request with chi URL params set and, when authed is
// true, a session in the context as RequireSession would leave it.
func newRequest(method, target, body string, params map[string]string, authed bool) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, rd)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if authed {
		ctx = auth.WithSession(ctx, &model.Session{Token: testToken, UserID: 1})
	}
	return req.WithContext(ctx)
}
