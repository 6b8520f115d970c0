package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

func TestReviewSubmit(t *testing.T) {
	logg := testLogger()
	ctx := withURLParams(context.Background(), map[string]string{"name": "Ama Styles"})

	serve := func(svc reviews.Service, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shops/Ama%20Styles/reviews", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		ReviewSubmit(svc, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("rating out of range", func(t *testing.T) {
		rec := serve(&stubReviewService{}, `{"rating":6,"comment":"great","reviewer_name":"Kofi"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("standard shop refuses reviews", func(t *testing.T) {
		svc := &stubReviewService{
			submitFn: func(context.Context, string, reviews.SubmitInput) (*reviews.ReviewDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reviews are available for Pro shops only")
			},
		}
		rec := serve(svc, `{"rating":5,"comment":"great","reviewer_name":"Kofi"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		var gotShop string
		svc := &stubReviewService{
			submitFn: func(_ context.Context, shop string, input reviews.SubmitInput) (*reviews.ReviewDTO, error) {
				gotShop = shop
				return &reviews.ReviewDTO{Rating: input.Rating, Comment: input.Comment, ReviewerName: input.ReviewerName}, nil
			},
		}
		rec := serve(svc, `{"rating":4,"comment":"great fabric","reviewer_name":"Kofi"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if gotShop != "Ama Styles" {
			t.Fatalf("expected shop name from route, got %q", gotShop)
		}
	})
}

func TestReviewListRejectsBadLimit(t *testing.T) {
	ctx := withURLParams(context.Background(), map[string]string{"name": "Ama Styles"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/x/reviews?limit=abc", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	ReviewList(&stubReviewService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
