package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/internal/plan"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

const whatsAppBaseURL = "https://wa.me/"

// ShopDTO is the shop record returned by the API.
type ShopDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Category       enums.ShopCategory `json:"category"`
	Location       string             `json:"location"`
	Description    *string            `json:"description,omitempty"`
	WhatsAppNumber string             `json:"whatsapp_number"`
	WhatsAppLink   string             `json:"whatsapp_link"`
	LogoURL        *string            `json:"logo_url,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func fromModel(shop *models.Shop) ShopDTO {
	return ShopDTO{
		ID:             shop.ID,
		Name:           shop.Name,
		Category:       shop.Category,
		Location:       shop.Location,
		Description:    shop.Description,
		WhatsAppNumber: shop.WhatsAppNumber,
		WhatsAppLink:   WhatsAppLink(shop.WhatsAppNumber),
		LogoURL:        shop.LogoURL,
		CreatedAt:      shop.CreatedAt,
		UpdatedAt:      shop.UpdatedAt,
	}
}

// WhatsAppLink builds the click-to-chat link for a stored number.
func WhatsAppLink(number string) string {
	digits := normalizeWhatsApp(number)
	if digits == "" {
		return ""
	}
	return whatsAppBaseURL + digits
}

// PublicShop is the public shop page.
type PublicShop struct {
	Shop     ShopDTO               `json:"shop"`
	Plan     plan.View             `json:"plan"`
	Products []products.ProductDTO `json:"products"`
	Reviews  reviews.Summary       `json:"reviews"`
}

// OwnerShop is the owner dashboard view.
type OwnerShop struct {
	Shop  ShopDTO    `json:"shop"`
	Plan  plan.View  `json:"plan"`
	Usage plan.Usage `json:"usage"`
}

// CreateShopInput carries the fields for opening a shop.
type CreateShopInput struct {
	Name           string
	Category       string
	Location       string
	Description    *string
	WhatsAppNumber string
	LogoURL        *string
}

// UpdateShopInput carries optional shop changes; nil fields are left untouched.
type UpdateShopInput struct {
	Name           *string
	Category       *string
	Location       *string
	Description    *string
	WhatsAppNumber *string
	LogoURL        *string
}
