package enums

import (
	"fmt"
	"strings"
)

// PaymentChannel is how the buyer paid for the upgrade.
type PaymentChannel string

const (
	PaymentChannelCard         PaymentChannel = "card"
	PaymentChannelMobileMoney  PaymentChannel = "mobile_money"
	PaymentChannelBankTransfer PaymentChannel = "bank_transfer"
	PaymentChannelUSSD         PaymentChannel = "ussd"
)

var validPaymentChannels = []PaymentChannel{
	PaymentChannelCard,
	PaymentChannelMobileMoney,
	PaymentChannelBankTransfer,
	PaymentChannelUSSD,
}

// String implements fmt.Stringer.
func (c PaymentChannel) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c PaymentChannel) IsValid() bool {
	for _, candidate := range validPaymentChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePaymentChannel converts raw input into a PaymentChannel.
func ParsePaymentChannel(value string) (PaymentChannel, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentChannels {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment channel %q", value)
}
