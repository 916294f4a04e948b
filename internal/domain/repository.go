package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfilePhoto(ctx context.Context, userID string, photo *MediaReference) error
}

// DonationRepository handles donation persistence. Create must enforce the
// one-donation-per-payment-reference invariant and report violations as
// ErrDuplicatePayment.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListByOwner(ctx context.Context, ownerID string) ([]Donation, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Donation, error)
}

// MediaStore persists uploaded binaries and resolves their public URLs.
type MediaStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// PaymentGateway creates orders at, and fetches payment status from, the
// external payment processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*PaymentOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
