package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
)

type purchaseFixture struct {
	contacts     *fakeContactRepo
	purchases    *fakePurchaseRepo
	touchpoints  *fakeTouchpointRepo
	attributions *fakeAttributionRepo
	uc           PurchaseUseCase
	contactID    uuid.UUID
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()

	contacts := newFakeContactRepo()
	contactID := uuid.New()
	contacts.byID[contactID] = &entities.Contact{
		ID:     contactID,
		Email:  "ana@example.com",
		Status: entities.ContactStatusLead,
	}

	touchpoints := &fakeTouchpointRepo{}
	attributions := newFakeAttributionRepo(touchpoints)
	purchases := newFakePurchaseRepo()
	attributionUC := NewAttributionUseCase(attributions)

	return &purchaseFixture{
		contacts:     contacts,
		purchases:    purchases,
		touchpoints:  touchpoints,
		attributions: attributions,
		uc:           NewPurchaseUseCase(purchases, contacts, attributionUC),
		contactID:    contactID,
	}
}

// addTouchpoint coloca um touchpoint já vinculado ao contact no ledger
func (f *purchaseFixture) addTouchpoint(channel entities.Channel, daysFromBase int) *entities.Touchpoint {
	id := f.contactID
	tp := &entities.Touchpoint{
		ID:           uuid.New(),
		VisitorID:    "v1",
		ContactID:    &id,
		Channel:      channel,
		IsFirstTouch: len(f.touchpoints.touchpoints) == 0,
		CreatedAt:    baseTime.AddDate(0, 0, daysFromBase),
	}
	f.touchpoints.touchpoints = append(f.touchpoints.touchpoints, tp)
	return tp
}

func (f *purchaseFixture) request() *PurchaseRequest {
	return &PurchaseRequest{
		ContactID:       f.contactID,
		ProductID:       "prod-1",
		ProductName:     "Curso",
		Amount:          100.00,
		Currency:        "BRL",
		PaymentProvider: "stripe",
		PaymentID:       "pi_123",
		PurchasedAt:     baseTime.AddDate(0, 0, 5),
	}
}

func TestRecordPurchaseValidations(t *testing.T) {
	f := newPurchaseFixture(t)

	tests := []struct {
		name   string
		mutate func(*PurchaseRequest)
	}{
		{"missing contact", func(r *PurchaseRequest) { r.ContactID = uuid.Nil }},
		{"zero amount", func(r *PurchaseRequest) { r.Amount = 0 }},
		{"negative amount", func(r *PurchaseRequest) { r.Amount = -10 }},
		{"missing purchased_at", func(r *PurchaseRequest) { r.PurchasedAt = time.Time{} }},
		{"unknown contact", func(r *PurchaseRequest) { r.ContactID = uuid.New() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(req)
			_, _, err := f.uc.RecordPurchase(context.Background(), req)
			var vErr *apperrors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecordPurchaseComputesAttribution(t *testing.T) {
	f := newPurchaseFixture(t)
	f.addTouchpoint(entities.ChannelMetaAds, 0)
	f.addTouchpoint(entities.ChannelGoogleAds, 3)
	last := f.addTouchpoint(entities.ChannelEmail, 5)

	purchase, attribution, err := f.uc.RecordPurchase(context.Background(), f.request())
	if err != nil {
		t.Fatal(err)
	}

	if purchase.PaymentStatus != entities.PaymentStatusCompleted {
		t.Fatalf("payment status = %s, want completed", purchase.PaymentStatus)
	}
	if attribution.TouchpointCount != 3 {
		t.Fatalf("touchpoint count = %d, want 3", attribution.TouchpointCount)
	}
	if attribution.FirstTouchChannel != string(entities.ChannelMetaAds) {
		t.Fatalf("first touch channel = %s, want meta_ads", attribution.FirstTouchChannel)
	}
	if attribution.LastTouchChannel != string(entities.ChannelEmail) {
		t.Fatalf("last touch channel = %s, want email", attribution.LastTouchChannel)
	}
	if attribution.DaysToConversion != 5 {
		t.Fatalf("days to conversion = %v, want 5", attribution.DaysToConversion)
	}

	var linear []entities.AttributionResult
	if err := json.Unmarshal(attribution.Linear, &linear); err != nil {
		t.Fatal(err)
	}
	if len(linear) != 3 || linear[2].AttributedAmount != 33.34 {
		t.Fatalf("linear = %+v, want remainder 33.34 on last", linear)
	}

	if !last.IsLastTouch {
		t.Fatal("attribution engine must mark the last touchpoint")
	}

	// Agregados do contact atualizados na primeira entrega
	contact := f.contacts.byID[f.contactID]
	if contact.TotalPurchases != 1 || contact.TotalRevenue != 100.00 {
		t.Fatalf("contact aggregates = %d/%v, want 1/100.00", contact.TotalPurchases, contact.TotalRevenue)
	}
	if contact.Status != entities.ContactStatusCustomer {
		t.Fatalf("status = %s, want customer", contact.Status)
	}
}

func TestRecordPurchaseIgnoresTouchpointsAfterPurchase(t *testing.T) {
	f := newPurchaseFixture(t)
	f.addTouchpoint(entities.ChannelMetaAds, 0)
	f.addTouchpoint(entities.ChannelEmail, 10) // depois da compra no dia 5

	_, attribution, err := f.uc.RecordPurchase(context.Background(), f.request())
	if err != nil {
		t.Fatal(err)
	}
	if attribution.TouchpointCount != 1 {
		t.Fatalf("touchpoint count = %d, want 1 (late touchpoint excluded)", attribution.TouchpointCount)
	}
	if attribution.LastTouchChannel != string(entities.ChannelMetaAds) {
		t.Fatalf("last touch channel = %s, want meta_ads", attribution.LastTouchChannel)
	}
}

func TestRecordPurchaseWithEmptyLedger(t *testing.T) {
	f := newPurchaseFixture(t)

	_, attribution, err := f.uc.RecordPurchase(context.Background(), f.request())
	if err != nil {
		t.Fatal(err)
	}
	if attribution.TouchpointCount != 0 {
		t.Fatalf("touchpoint count = %d, want 0", attribution.TouchpointCount)
	}
	if attribution.FirstTouchChannel != "" || attribution.LastTouchChannel != "" {
		t.Fatal("no channels expected without touchpoints")
	}
}

func TestRecordPurchaseDuplicateWebhookDelivery(t *testing.T) {
	f := newPurchaseFixture(t)
	f.addTouchpoint(entities.ChannelMetaAds, 0)

	req := f.request()
	first, firstAttr, err := f.uc.RecordPurchase(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, secondAttr, err := f.uc.RecordPurchase(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Fatal("duplicate delivery must reuse the stored purchase")
	}
	if firstAttr.ID != secondAttr.ID {
		t.Fatal("recompute must report the stored attribution record, not a fresh id")
	}
	if len(f.purchases.byID) != 1 {
		t.Fatalf("duplicate delivery stored %d purchases, want 1", len(f.purchases.byID))
	}
	// Agregados aplicados uma única vez
	if f.contacts.apply != 1 {
		t.Fatalf("contact aggregates applied %d times, want 1", f.contacts.apply)
	}
	// A recomputação é um upsert: continua um registro só
	if len(f.attributions.byPurchaseID) != 1 {
		t.Fatalf("got %d attribution records, want 1", len(f.attributions.byPurchaseID))
	}
	if f.attributions.saveCalls != 2 {
		t.Fatalf("save calls = %d, want 2 (recompute on redelivery)", f.attributions.saveCalls)
	}
}

func TestRecordPurchaseRecoversFromCreateRace(t *testing.T) {
	f := newPurchaseFixture(t)

	winner := &entities.Purchase{
		ID:              uuid.New(),
		ContactID:       f.contactID,
		Amount:          100.00,
		PaymentProvider: "stripe",
		PaymentID:       "pi_123",
		PaymentStatus:   entities.PaymentStatusCompleted,
		PurchasedAt:     baseTime.AddDate(0, 0, 5),
	}
	f.purchases.conflictWinner = winner

	purchase, _, err := f.uc.RecordPurchase(context.Background(), f.request())
	if err != nil {
		t.Fatalf("duplicate-key race must be recovered, got %v", err)
	}
	if purchase.ID != winner.ID {
		t.Fatalf("resolved to %s, want race winner %s", purchase.ID, winner.ID)
	}
	// O perdedor da corrida não reaplica os agregados
	if f.contacts.apply != 0 {
		t.Fatalf("race loser applied aggregates %d times, want 0", f.contacts.apply)
	}
}

func TestRecordPurchaseFallsBackToAmountWhenNotNormalized(t *testing.T) {
	f := newPurchaseFixture(t)
	f.addTouchpoint(entities.ChannelMetaAds, 0)

	req := f.request()
	req.Amount = 550.00
	req.AmountNormalized = 0

	purchase, attribution, err := f.uc.RecordPurchase(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if purchase.AmountNormalized != 550.00 {
		t.Fatalf("amount normalized = %v, want fallback to 550.00", purchase.AmountNormalized)
	}

	var firstTouch entities.AttributionResult
	if err := json.Unmarshal(attribution.FirstTouch, &firstTouch); err != nil {
		t.Fatal(err)
	}
	if firstTouch.AttributedAmount != 550.00 {
		t.Fatalf("attributed amount = %v, want 550.00", firstTouch.AttributedAmount)
	}
}

func TestRefundPurchase(t *testing.T) {
	f := newPurchaseFixture(t)
	if _, _, err := f.uc.RecordPurchase(context.Background(), f.request()); err != nil {
		t.Fatal(err)
	}

	refundedAt := baseTime.AddDate(0, 0, 7)
	purchase, err := f.uc.RefundPurchase(context.Background(), "stripe", "pi_123", refundedAt)
	if err != nil {
		t.Fatal(err)
	}
	if purchase == nil {
		t.Fatal("expected the refunded purchase")
	}
	if purchase.PaymentStatus != entities.PaymentStatusRefunded {
		t.Fatalf("status = %s, want refunded", purchase.PaymentStatus)
	}
	if purchase.RefundedAt == nil || !purchase.RefundedAt.Equal(refundedAt) {
		t.Fatalf("refunded_at = %v, want %v", purchase.RefundedAt, refundedAt)
	}

	if _, err := f.uc.RefundPurchase(context.Background(), "stripe", "", refundedAt); err == nil {
		t.Fatal("expected validation error for missing payment id")
	}

	unknown, err := f.uc.RefundPurchase(context.Background(), "stripe", "pi_missing", refundedAt)
	if err != nil {
		t.Fatal(err)
	}
	if unknown != nil {
		t.Fatal("unknown payment must resolve to nil purchase")
	}
}
