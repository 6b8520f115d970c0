package enums

import "testing"

func TestParseShopCategoryIsCaseInsensitive(t *testing.T) {
	got, err := ParseShopCategory("  electronics & gadgets ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ShopCategoryElectronics {
		t.Fatalf("expected %q, got %q", ShopCategoryElectronics, got)
	}
	if _, err := ParseShopCategory("Weapons"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestShopCategoriesReturnsCopy(t *testing.T) {
	cats := ShopCategories()
	cats[0] = "mutated"
	if ShopCategories()[0] != ShopCategoryElectronics {
		t.Fatal("ShopCategories must not expose internal slice")
	}
	if fresh := ShopCategories(); fresh[len(fresh)-1] != ShopCategoryOther {
		t.Fatal("expected Other to close the list")
	}
}

func TestParseSubscriptionEnums(t *testing.T) {
	tests := []struct {
		raw     string
		plan    bool
		wantErr bool
	}{
		{raw: "PRO", plan: true},
		{raw: "standard", plan: true},
		{raw: "gold", plan: true, wantErr: true},
		{raw: "Active"},
		{raw: "suspended"},
		{raw: "canceled", wantErr: true},
	}
	for _, tt := range tests {
		var err error
		if tt.plan {
			_, err = ParseSubscriptionPlan(tt.raw)
		} else {
			_, err = ParseSubscriptionStatus(tt.raw)
		}
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: expected error=%v, got %v", tt.raw, tt.wantErr, err)
		}
	}
}

func TestPaymentEnums(t *testing.T) {
	if s, err := ParsePaymentStatus("SUCCESS"); err != nil || s != PaymentStatusSuccess {
		t.Fatalf("unexpected status parse %q %v", s, err)
	}
	if _, err := ParsePaymentChannel("cheque"); err == nil {
		t.Fatal("expected unknown channel to fail")
	}
	if !PaymentChannelMobileMoney.IsValid() {
		t.Fatal("mobile money should be valid")
	}
}
