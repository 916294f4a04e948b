package domain

// OrderRequest describes a provisional payment order to create at the gateway.
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// PaymentOrder is the gateway's handle for a created order.
type PaymentOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
}

// Payment is the gateway's authoritative view of a payment.
type Payment struct {
	ID          string
	OrderID     string
	Status      string
	AmountPaise int64
}

// PaymentStatusCaptured is the only gateway status that allows a fund
// donation to be persisted.
const PaymentStatusCaptured = "captured"
