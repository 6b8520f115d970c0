package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

type reviewBody struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating":9}`))
	var body reviewBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["rating"] != "must be at most 5" || details["comment"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating":4,"comment":"ok","admin":true}`))
	var body reviewBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsEmptyAndOversizedBodies(t *testing.T) {
	var body reviewBody
	empty := httptest.NewRequest("POST", "/", nil)
	if err := DecodeJSONBody(empty, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}

	huge := `{"rating":4,"comment":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(huge)), &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "request body too large" {
		t.Fatalf("expected too large error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsTrailingObjects(t *testing.T) {
	var body reviewBody
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating":4,"comment":"ok"}{"rating":1}`))
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=5&cursor=abc", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Limit != 5 || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", params)
	}

	req = httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParsePagination(req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
