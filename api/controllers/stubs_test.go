package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	"github.com/angelmondragon/shopfront-backend/internal/search"
	"github.com/angelmondragon/shopfront-backend/internal/shops"
	"github.com/angelmondragon/shopfront-backend/internal/subscriptions"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withOwner(ctx context.Context, id uuid.UUID) context.Context {
	return middleware.WithUserID(ctx, id.String())
}

func withURLParams(ctx context.Context, params map[string]string) context.Context {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return env
}

type stubShopService struct {
	createFn    func(ctx context.Context, ownerID uuid.UUID, input shops.CreateShopInput) (*shops.OwnerShop, error)
	getByNameFn func(ctx context.Context, name string) (*shops.PublicShop, error)
	getMineFn   func(ctx context.Context, ownerID uuid.UUID) (*shops.OwnerShop, error)
	updateFn    func(ctx context.Context, ownerID uuid.UUID, input shops.UpdateShopInput) (*shops.OwnerShop, error)
}

func (s *stubShopService) Create(ctx context.Context, ownerID uuid.UUID, input shops.CreateShopInput) (*shops.OwnerShop, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *stubShopService) GetByName(ctx context.Context, name string) (*shops.PublicShop, error) {
	return s.getByNameFn(ctx, name)
}

func (s *stubShopService) GetMine(ctx context.Context, ownerID uuid.UUID) (*shops.OwnerShop, error) {
	return s.getMineFn(ctx, ownerID)
}

func (s *stubShopService) Update(ctx context.Context, ownerID uuid.UUID, input shops.UpdateShopInput) (*shops.OwnerShop, error) {
	return s.updateFn(ctx, ownerID, input)
}

type stubProductService struct {
	createFn func(ctx context.Context, ownerID uuid.UUID, input products.CreateProductInput) (*products.CreateResult, error)
	updateFn func(ctx context.Context, ownerID, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error)
	deleteFn func(ctx context.Context, ownerID, productID uuid.UUID) error
	listFn   func(ctx context.Context, shopName string, params pagination.Params) (*products.ListResult, error)
}

func (s *stubProductService) Create(ctx context.Context, ownerID uuid.UUID, input products.CreateProductInput) (*products.CreateResult, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *stubProductService) Update(ctx context.Context, ownerID, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return s.updateFn(ctx, ownerID, productID, input)
}

func (s *stubProductService) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	return s.deleteFn(ctx, ownerID, productID)
}

func (s *stubProductService) ListByShopName(ctx context.Context, shopName string, params pagination.Params) (*products.ListResult, error) {
	return s.listFn(ctx, shopName, params)
}

type stubReviewService struct {
	submitFn func(ctx context.Context, shopName string, input reviews.SubmitInput) (*reviews.ReviewDTO, error)
	listFn   func(ctx context.Context, shopName string, params pagination.Params) (*reviews.ListResult, error)
}

func (s *stubReviewService) Submit(ctx context.Context, shopName string, input reviews.SubmitInput) (*reviews.ReviewDTO, error) {
	return s.submitFn(ctx, shopName, input)
}

func (s *stubReviewService) List(ctx context.Context, shopName string, params pagination.Params) (*reviews.ListResult, error) {
	return s.listFn(ctx, shopName, params)
}

func (s *stubReviewService) Summary(context.Context, *models.Shop) (reviews.Summary, error) {
	return reviews.Summary{}, nil
}

type stubSubscriptionService struct {
	recordFn func(ctx context.Context, ownerID uuid.UUID, input subscriptions.RecordPaymentInput) (*subscriptions.PaymentResult, error)
	cancelFn func(ctx context.Context, ownerID uuid.UUID) (*subscriptions.StatusResult, error)
	statusFn func(ctx context.Context, ownerID uuid.UUID) (*subscriptions.StatusResult, error)
}

func (s *stubSubscriptionService) RecordPayment(ctx context.Context, ownerID uuid.UUID, input subscriptions.RecordPaymentInput) (*subscriptions.PaymentResult, error) {
	return s.recordFn(ctx, ownerID, input)
}

func (s *stubSubscriptionService) Cancel(ctx context.Context, ownerID uuid.UUID) (*subscriptions.StatusResult, error) {
	return s.cancelFn(ctx, ownerID)
}

func (s *stubSubscriptionService) Status(ctx context.Context, ownerID uuid.UUID) (*subscriptions.StatusResult, error) {
	return s.statusFn(ctx, ownerID)
}

type stubSearchService struct {
	query     string
	location  string
	locations []string
	err       error
}

func (s *stubSearchService) Invalidate() {}

func (s *stubSearchService) Search(_ context.Context, query, location string) (*search.Result, error) {
	s.query, s.location = query, location
	if s.err != nil {
		return nil, s.err
	}
	return &search.Result{Query: query, Location: location, Shops: []search.Candidate{}}, nil
}

func (s *stubSearchService) Locations(context.Context) ([]string, error) {
	return s.locations, s.err
}
