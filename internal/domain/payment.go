package domain

// PaymentMethod selects the rail a purchase settles over. Exactly two
// variants exist: NativePayment (direct balance adjustments) and
// TokenPayment (delegated transfers through the custody ledger).
type PaymentMethod interface {
	isPaymentMethod()
}

// NativePayment settles in the ledger's native currency.
type NativePayment struct{}

// TokenPayment settles in a fungible token. Amount is the total the
// buyer has authorized the engine to draw from their token account;
// the recorded sale price, not Amount, remains the settlement base.
type TokenPayment struct {
	TokenID string `json:"tokenId"`
	Amount  int64  `json:"amount"`
}

func (NativePayment) isPaymentMethod() {}
func (TokenPayment) isPaymentMethod()  {}
