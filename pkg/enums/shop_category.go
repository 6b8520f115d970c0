package enums

import (
	"fmt"
	"strings"
)

// ShopCategory is the fixed set of storefront categories shoppers can browse.
type ShopCategory string

const (
	ShopCategoryElectronics ShopCategory = "Electronics & Gadgets"
	ShopCategoryFashion     ShopCategory = "Fashion & Clothing"
	ShopCategoryBeauty      ShopCategory = "Beauty & Personal Care"
	ShopCategoryFood        ShopCategory = "Food & Groceries"
	ShopCategoryHome        ShopCategory = "Home & Living"
	ShopCategoryHealth      ShopCategory = "Health & Wellness"
	ShopCategoryPhones      ShopCategory = "Phones & Accessories"
	ShopCategoryBooks       ShopCategory = "Books & Stationery"
	ShopCategorySports      ShopCategory = "Sports & Outdoors"
	ShopCategoryArts        ShopCategory = "Arts & Crafts"
	ShopCategoryServices    ShopCategory = "Services"
	ShopCategoryOther       ShopCategory = "Other"
)

var validShopCategories = []ShopCategory{
	ShopCategoryElectronics,
	ShopCategoryFashion,
	ShopCategoryBeauty,
	ShopCategoryFood,
	ShopCategoryHome,
	ShopCategoryHealth,
	ShopCategoryPhones,
	ShopCategoryBooks,
	ShopCategorySports,
	ShopCategoryArts,
	ShopCategoryServices,
	ShopCategoryOther,
}

// ShopCategories returns the categories in display order.
func ShopCategories() []ShopCategory {
	out := make([]ShopCategory, len(validShopCategories))
	copy(out, validShopCategories)
	return out
}

// String implements fmt.Stringer.
func (c ShopCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known category.
func (c ShopCategory) IsValid() bool {
	for _, candidate := range validShopCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseShopCategory matches raw input case-insensitively against the known categories.
func ParseShopCategory(value string) (ShopCategory, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validShopCategories {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop category %q", value)
}
