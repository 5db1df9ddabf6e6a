package domain

// PaymentMethod is the user-facing payment channel name.
type PaymentMethod string

const (
	PaymentMethodDana      PaymentMethod = "DANA"
	PaymentMethodBCAVA     PaymentMethod = "BCA Virtual Account"
	PaymentMethodBNIVA     PaymentMethod = "BNI Virtual Account"
	PaymentMethodBRIVA     PaymentMethod = "BRI Virtual Account"
	PaymentMethodMandiriVA PaymentMethod = "Mandiri Virtual Account"
	PaymentMethodGoPay     PaymentMethod = "GoPay"
	PaymentMethodOVO       PaymentMethod = "OVO"
	PaymentMethodShopeePay PaymentMethod = "ShopeePay"
	PaymentMethodQRIS      PaymentMethod = "QRIS"
)

// Gateway payment_type identifiers.
const (
	GatewayTypeDana         = "dana"
	GatewayTypeBankTransfer = "bank_transfer"
	GatewayTypeEChannel     = "echannel"
	GatewayTypeGoPay        = "gopay"
	GatewayTypeOVO          = "ovo"
	GatewayTypeShopeePay    = "shopeepay"
	GatewayTypeQRIS         = "qris"
	GatewayTypeCStore       = "cstore"
)

var paymentMethods = map[PaymentMethod]struct {
	gatewayType     string
	enabledPayments []string
	bankCode        string
}{
	PaymentMethodDana:      {GatewayTypeDana, []string{"dana"}, ""},
	PaymentMethodBCAVA:     {GatewayTypeBankTransfer, []string{"bca_va"}, "bca"},
	PaymentMethodBNIVA:     {GatewayTypeBankTransfer, []string{"bni_va"}, "bni"},
	PaymentMethodBRIVA:     {GatewayTypeBankTransfer, []string{"bri_va"}, "bri"},
	PaymentMethodMandiriVA: {GatewayTypeEChannel, []string{"echannel"}, ""},
	PaymentMethodGoPay:     {GatewayTypeGoPay, []string{"gopay"}, ""},
	PaymentMethodOVO:       {GatewayTypeOVO, []string{"ovo"}, ""},
	PaymentMethodShopeePay: {GatewayTypeShopeePay, []string{"shopeepay"}, ""},
	PaymentMethodQRIS:      {GatewayTypeQRIS, []string{"qris"}, ""},
}

// IsValid reports whether m is one of the supported payment channels.
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethods[m]
	return ok
}

// GatewayType returns the gateway payment_type for this channel.
func (m PaymentMethod) GatewayType() string {
	if v, ok := paymentMethods[m]; ok {
		return v.gatewayType
	}
	return GatewayTypeBankTransfer
}

// EnabledPayments returns the gateway channel list restricted to this
// method alone, so the hosted payment page never offers alternatives.
func (m PaymentMethod) EnabledPayments() []string {
	if v, ok := paymentMethods[m]; ok {
		return v.enabledPayments
	}
	return nil
}

// BankCode returns the virtual-account bank code, or "" when the channel
// is not a bank transfer.
func (m PaymentMethod) BankCode() string {
	if v, ok := paymentMethods[m]; ok {
		return v.bankCode
	}
	return ""
}

// SupportedPaymentMethods lists every accepted channel, for validation
// error messages.
func SupportedPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodDana,
		PaymentMethodBCAVA,
		PaymentMethodBNIVA,
		PaymentMethodBRIVA,
		PaymentMethodMandiriVA,
		PaymentMethodGoPay,
		PaymentMethodOVO,
		PaymentMethodShopeePay,
		PaymentMethodQRIS,
	}
}
