package usecases

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"gorm.io/gorm"
)

// Fakes em memória que reproduzem o contrato dos repositories, incluindo
// as semânticas de first touch, dedup e unique de email/payment.

type fakeVisitorRepo struct {
	visitors map[string]*entities.Visitor
	err      error
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{visitors: make(map[string]*entities.Visitor)}
}

func (f *fakeVisitorRepo) Upsert(_ context.Context, visitor *entities.Visitor) error {
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.visitors[visitor.ID]; ok {
		existing.LastSeen = visitor.LastSeen
		return nil
	}
	cp := *visitor
	f.visitors[visitor.ID] = &cp
	return nil
}

func (f *fakeVisitorRepo) FindByID(_ context.Context, id string) (*entities.Visitor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.visitors[id], nil
}

type fakeEventRepo struct {
	events    []*entities.Event
	createErr error
}

func (f *fakeEventRepo) Create(_ context.Context, event *entities.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *event
	f.events = append(f.events, &cp)
	return nil
}

func (f *fakeEventRepo) ReassignToContact(_ context.Context, visitorID string, contactID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.VisitorID == visitorID && e.ContactID == nil {
			id := contactID
			e.ContactID = &id
			n++
		}
	}
	return n, nil
}

type fakeTouchpointRepo struct {
	touchpoints []*entities.Touchpoint
	appendErr   error
}

type dedupKey struct {
	visitorID      string
	createdAt      time.Time
	touchpointType entities.TouchpointType
	channel        entities.Channel
}

func (f *fakeTouchpointRepo) Append(_ context.Context, touchpoint *entities.Touchpoint) (*entities.Touchpoint, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}

	key := dedupKey{touchpoint.VisitorID, touchpoint.CreatedAt, touchpoint.TouchpointType, touchpoint.Channel}
	hasPrior := false
	for _, tp := range f.touchpoints {
		if (dedupKey{tp.VisitorID, tp.CreatedAt, tp.TouchpointType, tp.Channel}) == key {
			cp := *tp
			return &cp, nil
		}
		if tp.VisitorID == touchpoint.VisitorID {
			hasPrior = true
		}
	}

	cp := *touchpoint
	cp.IsFirstTouch = !hasPrior
	f.touchpoints = append(f.touchpoints, &cp)
	out := cp
	return &out, nil
}

func (f *fakeTouchpointRepo) ReassignToContact(_ context.Context, visitorID string, contactID uuid.UUID) (int64, error) {
	var n int64
	for _, tp := range f.touchpoints {
		if tp.VisitorID == visitorID && tp.ContactID == nil {
			id := contactID
			tp.ContactID = &id
			n++
		}
	}
	return n, nil
}

type fakeContactRepo struct {
	byID   map[uuid.UUID]*entities.Contact
	links  int
	apply  int
	// Quando preenchido, o próximo Create devolve conflito de chave e
	// registra este contact como vencedor da corrida
	conflictWinner *entities.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{byID: make(map[uuid.UUID]*entities.Contact)}
}

func (f *fakeContactRepo) FindByEmail(_ context.Context, email string) (*entities.Contact, error) {
	for _, c := range f.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Contact, error) {
	return f.byID[id], nil
}

func (f *fakeContactRepo) Create(_ context.Context, contact *entities.Contact) error {
	if f.conflictWinner != nil {
		winner := f.conflictWinner
		f.conflictWinner = nil
		f.byID[winner.ID] = winner
		return gorm.ErrDuplicatedKey
	}
	for _, c := range f.byID {
		if c.Email == contact.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *contact
	f.byID[contact.ID] = &cp
	return nil
}

func (f *fakeContactRepo) LinkVisitor(_ context.Context, contactID uuid.UUID, visitorID string) error {
	if c, ok := f.byID[contactID]; ok && c.VisitorID == "" {
		c.VisitorID = visitorID
		f.links++
	}
	return nil
}

func (f *fakeContactRepo) UpdateProperties(_ context.Context, contactID uuid.UUID, firstName, lastName, phone string) error {
	c, ok := f.byID[contactID]
	if !ok {
		return nil
	}
	if firstName != "" {
		c.FirstName = firstName
	}
	if lastName != "" {
		c.LastName = lastName
	}
	if phone != "" {
		c.Phone = phone
	}
	return nil
}

func (f *fakeContactRepo) ApplyPurchase(_ context.Context, contactID uuid.UUID, amount float64, purchasedAt time.Time) error {
	if c, ok := f.byID[contactID]; ok {
		c.TotalRevenue += amount
		c.TotalPurchases++
		c.Status = entities.ContactStatusCustomer
		f.apply++
	}
	return nil
}

type fakePurchaseRepo struct {
	byID map[uuid.UUID]*entities.Purchase
	// Quando preenchido, o próximo Create devolve conflito e registra
	// esta compra como a entrega que venceu a corrida
	conflictWinner *entities.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{byID: make(map[uuid.UUID]*entities.Purchase)}
}

func (f *fakePurchaseRepo) Create(_ context.Context, purchase *entities.Purchase) error {
	if f.conflictWinner != nil {
		winner := f.conflictWinner
		f.conflictWinner = nil
		f.byID[winner.ID] = winner
		return gorm.ErrDuplicatedKey
	}
	for _, p := range f.byID {
		if p.PaymentProvider == purchase.PaymentProvider && p.PaymentID == purchase.PaymentID && purchase.PaymentID != "" {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *purchase
	f.byID[purchase.ID] = &cp
	return nil
}

func (f *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Purchase, error) {
	return f.byID[id], nil
}

func (f *fakePurchaseRepo) FindByPayment(_ context.Context, provider, paymentID string) (*entities.Purchase, error) {
	for _, p := range f.byID {
		if p.PaymentProvider == provider && p.PaymentID == paymentID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePurchaseRepo) MarkRefunded(_ context.Context, provider, paymentID string, refundedAt time.Time) (*entities.Purchase, error) {
	p, _ := f.FindByPayment(context.Background(), provider, paymentID)
	if p == nil {
		return nil, nil
	}
	p.PaymentStatus = entities.PaymentStatusRefunded
	p.RefundedAt = &refundedAt
	return p, nil
}

// fakeAttributionRepo reproduz SaveWithLedger sobre um ledger em memória,
// inclusive o recorte temporal e o clear-then-set de is_last_touch.
type fakeAttributionRepo struct {
	ledger       *fakeTouchpointRepo
	byPurchaseID map[uuid.UUID]*entities.Attribution
	saveCalls    int
	stats        []repositories.ChannelStat
}

func newFakeAttributionRepo(ledger *fakeTouchpointRepo) *fakeAttributionRepo {
	return &fakeAttributionRepo{
		ledger:       ledger,
		byPurchaseID: make(map[uuid.UUID]*entities.Attribution),
	}
}

func (f *fakeAttributionRepo) SaveWithLedger(_ context.Context, purchase *entities.Purchase, compute repositories.ComputeFunc) (*entities.Attribution, error) {
	f.saveCalls++

	var slice []entities.Touchpoint
	for _, tp := range f.ledger.touchpoints {
		if tp.ContactID != nil && *tp.ContactID == purchase.ContactID && !tp.CreatedAt.After(purchase.PurchasedAt) {
			slice = append(slice, *tp)
		}
	}
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].CreatedAt.Before(slice[j].CreatedAt)
	})

	attribution, lastTouchID, err := compute(slice)
	if err != nil {
		return nil, err
	}

	for _, tp := range f.ledger.touchpoints {
		if tp.ContactID != nil && *tp.ContactID == purchase.ContactID {
			tp.IsLastTouch = lastTouchID != nil && tp.ID == *lastTouchID
		}
	}

	if existing, ok := f.byPurchaseID[purchase.ID]; ok {
		attribution.ID = existing.ID
		attribution.CreatedAt = existing.CreatedAt
	}
	f.byPurchaseID[purchase.ID] = attribution
	return attribution, nil
}

func (f *fakeAttributionRepo) GetByPurchaseID(_ context.Context, purchaseID uuid.UUID) (*entities.Attribution, error) {
	return f.byPurchaseID[purchaseID], nil
}

func (f *fakeAttributionRepo) ChannelBreakdown(_ context.Context, column string, from, to time.Time) ([]repositories.ChannelStat, error) {
	return f.stats, nil
}
