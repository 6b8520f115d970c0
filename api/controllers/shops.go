package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shopfront-backend/api/responses"
	"github.com/angelmondragon/shopfront-backend/api/validators"
	"github.com/angelmondragon/shopfront-backend/internal/shops"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

type shopCreateRequest struct {
	Name           string  `json:"name" validate:"required,max=80"`
	Category       string  `json:"category" validate:"required"`
	Location       string  `json:"location" validate:"required,max=80"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	WhatsAppNumber string  `json:"whatsapp_number" validate:"required"`
	LogoURL        *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

func (r shopCreateRequest) toInput() shops.CreateShopInput {
	return shops.CreateShopInput{
		Name:           r.Name,
		Category:       r.Category,
		Location:       r.Location,
		Description:    r.Description,
		WhatsAppNumber: r.WhatsAppNumber,
		LogoURL:        r.LogoURL,
	}
}

type shopUpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Category       *string `json:"category,omitempty"`
	Location       *string `json:"location,omitempty" validate:"omitempty,min=1,max=80"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	WhatsAppNumber *string `json:"whatsapp_number,omitempty"`
	LogoURL        *string `json:"logo_url,omitempty"`
}

func (r shopUpdateRequest) toInput() shops.UpdateShopInput {
	return shops.UpdateShopInput{
		Name:           r.Name,
		Category:       r.Category,
		Location:       r.Location,
		Description:    r.Description,
		WhatsAppNumber: r.WhatsAppNumber,
		LogoURL:        r.LogoURL,
	}
}

// ShopCreate opens a shop for the authenticated owner.
func ShopCreate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		uid, err := ownerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload shopCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.Create(r.Context(), uid, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, shop)
	}
}

// ShopPublic renders the public shop page by name.
func ShopPublic(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		page, err := svc.GetByName(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// MyShop returns the owner dashboard.
func MyShop(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		uid, err := ownerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.GetMine(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}

// MyShopUpdate applies partial changes to the owner's shop.
func MyShopUpdate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		uid, err := ownerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload shopUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shop, err := svc.Update(r.Context(), uid, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shop)
	}
}
