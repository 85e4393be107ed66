package enums

import "fmt"

// PaymentMethod is the closed set of display-only payment options. No real
// card data is ever stored behind these.
type PaymentMethod string

const (
	PaymentMethodVisa       PaymentMethod = "visa"
	PaymentMethodMastercard PaymentMethod = "mastercard"
	PaymentMethodPaypal     PaymentMethod = "paypal"
	PaymentMethodApplePay   PaymentMethod = "applepay"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodVisa,
	PaymentMethodMastercard,
	PaymentMethodPaypal,
	PaymentMethodApplePay,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
