package domain

import (
	"strings"
	"time"
)

// DonationKind discriminates the two donation variants.
type DonationKind string

const (
	DonationKindClothes DonationKind = "clothes"
	DonationKindFund    DonationKind = "fund"
)

// DonationStatus enumerates donation lifecycle states. Clothes donations stay
// pending; fund donations are only ever persisted as completed.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusConfirmed DonationStatus = "confirmed"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// DonationItem is one entry in a clothes donation.
type DonationItem struct {
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Photo       *MediaReference `json:"photo,omitempty"`
}

// ClothesPayload holds the clothes-variant fields.
type ClothesPayload struct {
	Items         []DonationItem `json:"items"`
	PickupAddress string         `json:"pickup_address"`
	PickupDate    time.Time      `json:"pickup_date"`
}

// FundPayload holds the fund-variant fields. Amounts are in paise.
type FundPayload struct {
	AmountPaise int64  `json:"amount_paise"`
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"order_id"`
}

// Donation is a tagged union: Kind selects which payload pointer is set, and
// exactly one is set for a valid record. A donation is immutable once created.
type Donation struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Kind      DonationKind    `json:"kind"`
	Status    DonationStatus  `json:"status"`
	Clothes   *ClothesPayload `json:"clothes,omitempty"`
	Fund      *FundPayload    `json:"fund,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewClothesDonation validates the payload and returns a pending clothes
// donation. The creation timestamp is set here; persistence must not mutate it.
func NewClothesDonation(id, ownerID string, payload ClothesPayload) (*Donation, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, Validationf("donor identity is required")
	}
	if len(payload.Items) == 0 {
		return nil, Validationf("at least one item is required")
	}
	for i, item := range payload.Items {
		if strings.TrimSpace(item.Category) == "" {
			return nil, Validationf("item %d: category is required", i)
		}
		if item.Quantity <= 0 {
			return nil, Validationf("item %d: quantity must be positive", i)
		}
	}
	if strings.TrimSpace(payload.PickupAddress) == "" {
		return nil, Validationf("pickup address is required")
	}
	if payload.PickupDate.IsZero() {
		return nil, Validationf("pickup date is required")
	}
	return &Donation{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      DonationKindClothes,
		Status:    DonationStatusPending,
		Clothes:   &payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewFundDonation validates the payload and returns a completed fund donation.
// Callers must have verified the payment before constructing the record.
func NewFundDonation(id, ownerID string, payload FundPayload) (*Donation, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, Validationf("donor identity is required")
	}
	if payload.AmountPaise <= 0 {
		return nil, Validationf("amount must be positive")
	}
	if strings.TrimSpace(payload.PaymentID) == "" {
		return nil, Validationf("payment reference is required")
	}
	if strings.TrimSpace(payload.OrderID) == "" {
		return nil, Validationf("order reference is required")
	}
	return &Donation{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      DonationKindFund,
		Status:    DonationStatusCompleted,
		Fund:      &payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}
