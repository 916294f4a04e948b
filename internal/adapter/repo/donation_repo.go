package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
// Both donation variants live in one table with a kind discriminant; the
// partial unique index on payment_id enforces one donation per verified
// payment across all processes.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts a new donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	var (
		amountPaise   *int64
		paymentID     *string
		orderID       *string
		pickupAddress *string
		pickupDate    *time.Time
		itemsJSON     []byte
	)
	switch donation.Kind {
	case domain.DonationKindClothes:
		raw, err := json.Marshal(donation.Clothes.Items)
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		itemsJSON = raw
		pickupAddress = &donation.Clothes.PickupAddress
		pickupDate = &donation.Clothes.PickupDate
	case domain.DonationKindFund:
		amountPaise = &donation.Fund.AmountPaise
		paymentID = &donation.Fund.PaymentID
		orderID = &donation.Fund.OrderID
	default:
		return fmt.Errorf("unsupported donation kind %q", donation.Kind)
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO donations (id, user_id, kind, status, amount_paise, payment_id, order_id, pickup_address, pickup_date, items, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, donation.ID, donation.OwnerID, donation.Kind, donation.Status,
		amountPaise, paymentID, orderID, pickupAddress, pickupDate, itemsJSON, donation.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "donations_payment_id_key" {
			return domain.ErrDuplicatePayment
		}
		return err
	}
	return nil
}

// ListByOwner returns all donations by the given donor, newest first.
func (r *DonationRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, kind, status, amount_paise, payment_id, order_id, pickup_address, pickup_date, items, created_at
FROM donations
WHERE user_id = $1
ORDER BY created_at DESC;
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *donation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByPaymentID fetches the fund donation recorded for a payment reference.
func (r *DonationRepositoryPG) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Donation, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, kind, status, amount_paise, payment_id, order_id, pickup_address, pickup_date, items, created_at
FROM donations
WHERE payment_id = $1;
`, paymentID)
	donation, err := scanDonation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return donation, nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var (
		d             domain.Donation
		amountPaise   *int64
		paymentID     *string
		orderID       *string
		pickupAddress *string
		pickupDate    *time.Time
		itemsJSON     []byte
	)
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Kind, &d.Status,
		&amountPaise, &paymentID, &orderID, &pickupAddress, &pickupDate, &itemsJSON, &d.CreatedAt); err != nil {
		return nil, err
	}
	switch d.Kind {
	case domain.DonationKindClothes:
		payload := &domain.ClothesPayload{}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &payload.Items); err != nil {
				return nil, fmt.Errorf("decode items: %w", err)
			}
		}
		if pickupAddress != nil {
			payload.PickupAddress = *pickupAddress
		}
		if pickupDate != nil {
			payload.PickupDate = *pickupDate
		}
		d.Clothes = payload
	case domain.DonationKindFund:
		payload := &domain.FundPayload{}
		if amountPaise != nil {
			payload.AmountPaise = *amountPaise
		}
		if paymentID != nil {
			payload.PaymentID = *paymentID
		}
		if orderID != nil {
			payload.OrderID = *orderID
		}
		d.Fund = payload
	}
	return &d, nil
}
