package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/payments"
)

const (
	maxDonationFormBytes = 32 << 20
	photoFieldPrefix     = "photo_"
	pickupDateLayout     = "2006-01-02"
)

type clothesItemInput struct {
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// ClothesCreate accepts a multipart clothes-donation submission: an `items`
// JSON field, pickup logistics, and photo parts named photo_<index> that
// attach to the item at that index. Everything is validated before the first
// photo upload, and any photos stored before a later failure are removed.
func (a *App) ClothesCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := r.ParseMultipartForm(maxDonationFormBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	var items []clothesItemInput
	if err := json.Unmarshal([]byte(r.FormValue("items")), &items); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid items format")
		return
	}
	if len(items) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one item is required")
		return
	}

	address := strings.TrimSpace(r.FormValue("pickupAddress"))
	if address == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "pickup address is required")
		return
	}
	pickupDate, err := time.Parse(pickupDateLayout, r.FormValue("pickupDate"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid pickup date, expected YYYY-MM-DD")
		return
	}
	// the floor is the server's local calendar date, in the same UTC frame
	// that time.Parse put the pickup date in
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if pickupDate.Before(today) {
		a.error(w, http.StatusBadRequest, "bad_request", "pickup date must be today or later")
		return
	}

	photos, err := collectPhotoParts(r.MultipartForm, len(items))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	donationItems := make([]domain.DonationItem, len(items))
	for i, item := range items {
		donationItems[i] = domain.DonationItem{
			Category:    strings.TrimSpace(item.Category),
			Quantity:    item.Quantity,
			Description: strings.TrimSpace(item.Description),
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var storedKeys []string
	cleanup := func() {
		for _, key := range storedKeys {
			if err := a.Media.Remove(ctx, key); err != nil {
				a.Logger.Warn().Err(err).Str("key", key).Msg("compensating photo delete failed")
			}
		}
	}

	donationID := uuid.NewString()
	for _, p := range photos {
		data, err := readPhotoPart(p.header)
		if err != nil {
			cleanup()
			a.error(w, http.StatusBadRequest, "bad_request", "failed to read photo for item "+strconv.Itoa(p.index))
			return
		}
		key := "donations/" + userID + "/" + donationID + "/" + strconv.Itoa(p.index) + uploadExt(p.header.Filename)
		storedKey, err := a.Media.Write(ctx, key, data)
		if err != nil {
			cleanup()
			a.Logger.Error().Err(err).Msg("store donation photo failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to store photo")
			return
		}
		storedKeys = append(storedKeys, storedKey)
		donationItems[p.index].Photo = &domain.MediaReference{StorageID: storedKey, URL: a.Media.URL(storedKey)}
	}

	donation, err := domain.NewClothesDonation(donationID, userID, domain.ClothesPayload{
		Items:         donationItems,
		PickupAddress: address,
		PickupDate:    pickupDate,
	})
	if err != nil {
		cleanup()
		if domain.IsValidation(err) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("build clothes donation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create donation")
		return
	}
	if err := a.Donations.Create(r.Context(), donation); err != nil {
		cleanup()
		a.Logger.Error().Err(err).Msg("persist clothes donation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create donation")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"message":  "clothes donation created successfully",
		"donation": donation,
	})
}

type photoPart struct {
	index  int
	header *multipart.FileHeader
}

// collectPhotoParts resolves photo_<index> file parts against the item list.
// Unknown field names and out-of-range indexes are rejected before any upload.
func collectPhotoParts(form *multipart.Form, itemCount int) ([]photoPart, error) {
	if form == nil {
		return nil, nil
	}
	var parts []photoPart
	for field, headers := range form.File {
		if !strings.HasPrefix(field, photoFieldPrefix) {
			return nil, errors.New("unexpected file field " + strconv.Quote(field) + ", photo parts must be named photo_<index>")
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(field, photoFieldPrefix))
		if err != nil || idx < 0 {
			return nil, errors.New("invalid photo field " + strconv.Quote(field))
		}
		if idx >= itemCount {
			return nil, errors.New("photo index " + strconv.Itoa(idx) + " has no matching item")
		}
		if len(headers) != 1 {
			return nil, errors.New("exactly one file per photo field, got " + strconv.Itoa(len(headers)) + " for " + strconv.Quote(field))
		}
		parts = append(parts, photoPart{index: idx, header: headers[0]})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })
	for i := 1; i < len(parts); i++ {
		if parts[i].index == parts[i-1].index {
			return nil, errors.New("duplicate photo index " + strconv.Itoa(parts[i].index))
		}
	}
	return parts, nil
}

func readPhotoPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, errors.New("photo too large")
	}
	return data, nil
}

type fundOrderRequest struct {
	Amount json.Number `json:"amount"`
}

type fundOrderResponse struct {
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	DisplayAmount string `json:"display_amount"`
	Currency      string `json:"currency"`
}

// FundCreateOrder converts the requested rupee amount to paise and registers
// a provisional order at the gateway. No donation record is created here.
func (a *App) FundCreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req fundOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amountPaise, err := payments.RupeesToPaise(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid amount, please provide a valid number greater than 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	receipt := "receipt_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	order, err := a.Gateway.CreateOrder(ctx, domain.OrderRequest{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     receipt,
		Notes:       map[string]string{"userId": userID},
	})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayAuth) {
			a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("create gateway order failed")
		a.error(w, http.StatusBadGateway, "gateway", err.Error())
		return
	}

	display := payments.FormatINR(order.AmountPaise)
	a.Logger.Info().
		Str("order_id", order.ID).
		Str("amount", display).
		Msg("fund donation order created")
	a.json(w, http.StatusOK, fundOrderResponse{
		OrderID:       order.ID,
		Amount:        order.AmountPaise,
		DisplayAmount: display,
		Currency:      order.Currency,
	})
}

type fundVerifyRequest struct {
	Amount    int64  `json:"amount"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

// FundVerify checks the gateway callback signature, independently confirms
// the payment was captured, and only then persists a completed fund donation.
// A replayed payment reference returns the original record instead of a
// second one.
func (a *App) FundVerify(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req fundVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 || req.PaymentID == "" || req.OrderID == "" || req.Signature == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "missing required payment information")
		return
	}

	if !a.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		a.Logger.Warn().
			Str("order_id", req.OrderID).
			Str("payment_id", req.PaymentID).
			Msg("payment signature mismatch")
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrSignatureMismatch.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payment, err := a.Gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		a.Logger.Error().Err(err).Str("payment_id", req.PaymentID).Msg("fetch payment failed")
		a.error(w, http.StatusBadGateway, "gateway", err.Error())
		return
	}
	if payment.Status != domain.PaymentStatusCaptured {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrPaymentNotCaptured.Error()+", status: "+payment.Status)
		return
	}

	donation, err := domain.NewFundDonation(uuid.NewString(), userID, domain.FundPayload{
		AmountPaise: req.Amount,
		PaymentID:   req.PaymentID,
		OrderID:     req.OrderID,
	})
	if err != nil {
		if domain.IsValidation(err) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("build fund donation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}
	if err := a.Donations.Create(r.Context(), donation); err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			existing, lookupErr := a.Donations.GetByPaymentID(r.Context(), req.PaymentID)
			if lookupErr != nil {
				a.Logger.Error().Err(lookupErr).Str("payment_id", req.PaymentID).Msg("lookup duplicate donation failed")
				a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
				return
			}
			if existing.OwnerID != userID {
				a.Logger.Warn().
					Str("payment_id", req.PaymentID).
					Str("user_id", userID).
					Msg("payment reference replayed by a different user")
				a.error(w, http.StatusConflict, "conflict", "payment reference already used")
				return
			}
			a.json(w, http.StatusOK, map[string]any{
				"message":        "fund donation already recorded",
				"donation":       existing,
				"display_amount": payments.FormatINR(existing.Fund.AmountPaise),
			})
			return
		}
		a.Logger.Error().Err(err).Msg("persist fund donation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}

	display := payments.FormatINR(req.Amount)
	a.Logger.Info().
		Str("donation_id", donation.ID).
		Str("amount", display).
		Msg("fund donation completed")
	a.json(w, http.StatusOK, map[string]any{
		"message":        "fund donation successful",
		"donation":       donation,
		"display_amount": display,
	})
}

// MyDonations lists the caller's donations newest first. An empty history is
// a successful, empty response.
func (a *App) MyDonations(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donations, err := a.Donations.ListByOwner(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list donations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	if donations == nil {
		donations = []domain.Donation{}
	}
	a.json(w, http.StatusOK, donations)
}
