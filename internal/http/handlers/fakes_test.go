package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/payments"
)

const testGatewaySecret = "rzp_test_secret"

func newTestApp() (*App, *fakeUserRepo, *fakeDonationRepo, *fakeGateway, *fakeMedia) {
	users := &fakeUserRepo{users: map[string]*domain.User{}}
	donations := &fakeDonationRepo{}
	gateway := &fakeGateway{
		secret:   testGatewaySecret,
		payments: map[string]*domain.Payment{},
	}
	media := &fakeMedia{files: map[string][]byte{}}
	app := &App{
		Logger:    zerolog.New(io.Discard),
		JWTSecret: "test-jwt-secret",
		Users:     users,
		Donations: donations,
		Gateway:   gateway,
		Media:     media,
	}
	return app, users, donations, gateway, media
}

type fakeUserRepo struct {
	users     map[string]*domain.User
	createErr error
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfilePhoto(_ context.Context, userID string, photo *domain.MediaReference) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.ProfilePhoto = photo
	return nil
}

type fakeDonationRepo struct {
	donations []domain.Donation
	createErr error
}

func (f *fakeDonationRepo) Create(_ context.Context, donation *domain.Donation) error {
	if f.createErr != nil {
		return f.createErr
	}
	if donation.Kind == domain.DonationKindFund {
		for _, d := range f.donations {
			if d.Fund != nil && d.Fund.PaymentID == donation.Fund.PaymentID {
				return domain.ErrDuplicatePayment
			}
		}
	}
	f.donations = append(f.donations, *donation)
	return nil
}

func (f *fakeDonationRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Donation, error) {
	var out []domain.Donation
	// newest first, mirroring the created_at DESC query
	for i := len(f.donations) - 1; i >= 0; i-- {
		if f.donations[i].OwnerID == ownerID {
			out = append(out, f.donations[i])
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) GetByPaymentID(_ context.Context, paymentID string) (*domain.Donation, error) {
	for _, d := range f.donations {
		if d.Fund != nil && d.Fund.PaymentID == paymentID {
			clone := d
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeGateway struct {
	secret      string
	orders      []domain.OrderRequest
	orderResult *domain.PaymentOrder
	orderErr    error
	payments    map[string]*domain.Payment
	fetchErr    error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error) {
	g.orders = append(g.orders, req)
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	if g.orderResult != nil {
		return g.orderResult, nil
	}
	return &domain.PaymentOrder{ID: "order_fake1", AmountPaise: req.AmountPaise, Currency: "INR"}, nil
}

func (g *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*domain.Payment, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, errors.New("payment " + paymentID + " not found")
	}
	clone := *p
	return &clone, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payments.VerifySignature(orderID, paymentID, signature, g.secret)
}

type fakeMedia struct {
	files      map[string][]byte
	writes     []string
	removed    []string
	failAtCall int // 1-based write call that fails, 0 never
	calls      int
}

func (m *fakeMedia) Write(_ context.Context, key string, data []byte) (string, error) {
	m.calls++
	if m.failAtCall != 0 && m.calls == m.failAtCall {
		return "", errors.New("storage unavailable")
	}
	key = strings.TrimLeft(key, "/")
	m.files[key] = append([]byte(nil), data...)
	m.writes = append(m.writes, key)
	return key, nil
}

func (m *fakeMedia) Remove(_ context.Context, key string) error {
	delete(m.files, key)
	m.removed = append(m.removed, key)
	return nil
}

func (m *fakeMedia) URL(key string) string {
	return "http://cdn.test/" + key
}
