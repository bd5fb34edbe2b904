package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fakeStore is an in-memory stand-in for Postgres. Transactions are
// serialized and roll back bookings and promo usage on error.
type fakeStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	experiences []*entity.Experience
	promos      []*entity.PromoCode
	bookings    []*entity.Booking

	txCreated map[uuid.UUID]bool

	// hooks run without mu held
	beforeCreate    func()
	beforeIncrement func()

	increments int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) repository() *repository.Repository {
	return &repository.Repository{
		Experience: &fakeExperienceRepo{f},
		PromoCode:  &fakePromoRepo{f},
		Booking:    &fakeBookingRepo{f},
		Tx:         &fakeTransactor{f},
	}
}

func (f *fakeStore) addExperience(e *entity.Experience) *entity.Experience {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.experiences = append(f.experiences, e)
	return e
}

func (f *fakeStore) addPromo(p *entity.PromoCode) *entity.PromoCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.promos = append(f.promos, p)
	return p
}

// addBooking commits a booking outside of any transaction.
func (f *fakeStore) addBooking(b *entity.Booking) *entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.bookings = append(f.bookings, b)
	return b
}

func (f *fakeStore) bookingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

func (f *fakeStore) promoUsed(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.promos {
		if p.Code == code {
			return p.UsedCount
		}
	}
	return -1
}

type fakeTransactor struct{ f *fakeStore }

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(repos *repository.Repository) error) error {
	f := t.f
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	used := make(map[uuid.UUID]int, len(f.promos))
	for _, p := range f.promos {
		used[p.ID] = p.UsedCount
	}
	f.txCreated = map[uuid.UUID]bool{}
	f.mu.Unlock()

	err := fn(f.repository())

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		for _, p := range f.promos {
			if n, ok := used[p.ID]; ok {
				p.UsedCount = n
			}
		}
		kept := f.bookings[:0]
		for _, b := range f.bookings {
			if !f.txCreated[b.ID] {
				kept = append(kept, b)
			}
		}
		f.bookings = kept
	}
	f.txCreated = nil
	return err
}

type fakeExperienceRepo struct{ f *fakeStore }

func (r *fakeExperienceRepo) FindBookable(_ context.Context, key string) (*entity.Experience, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.experiences {
		if (e.ID.String() == key || e.ExperienceID == key) && e.IsActive {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeExperienceRepo) List(_ context.Context, filter entity.ExperienceFilter) ([]*entity.Experience, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.Experience
	for i := len(r.f.experiences) - 1; i >= 0; i-- {
		e := r.f.experiences[i]
		if !e.IsActive {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.City != "" && !strings.Contains(strings.ToLower(e.Location.City), strings.ToLower(filter.City)) {
			continue
		}
		if filter.MinPrice != nil && e.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && e.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.Search != "" && !matchesSearch(e, filter.Search) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matchesSearch(e *entity.Experience, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{e.Title, e.Description, e.ShortDescription} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *fakeExperienceRepo) Count(context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.experiences)), nil
}

func (r *fakeExperienceRepo) Create(_ context.Context, e *entity.Experience) error {
	r.f.addExperience(e)
	return nil
}

type fakePromoRepo struct{ f *fakeStore }

func (r *fakePromoRepo) FindActiveByCode(_ context.Context, code string) (*entity.PromoCode, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, p := range r.f.promos {
		if p.Code == normalized && p.IsActive {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// IncrementUsage is a compare-and-swap on the usage counter.
func (r *fakePromoRepo) IncrementUsage(_ context.Context, id uuid.UUID) (int, error) {
	if r.f.beforeIncrement != nil {
		r.f.beforeIncrement()
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, p := range r.f.promos {
		if p.ID != id {
			continue
		}
		if !p.IsActive || (p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit) {
			return 0, repository.ErrPromoExhausted
		}
		p.UsedCount++
		r.f.increments++
		return p.UsedCount, nil
	}
	return 0, repository.ErrPromoExhausted
}

func (r *fakePromoRepo) Count(context.Context) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.promos)), nil
}

func (r *fakePromoRepo) Create(_ context.Context, p *entity.PromoCode) error {
	r.f.addPromo(p)
	return nil
}

type fakeBookingRepo struct{ f *fakeStore }

func sameSlot(b *entity.Booking, email string, experienceID uuid.UUID, day time.Time, slotTime string) bool {
	slot := b.PrimarySlot()
	return b.GuestInfo.Email == email &&
		b.ExperienceID == experienceID &&
		entity.DayOf(slot.Date).Equal(entity.DayOf(day)) &&
		slot.Time == slotTime &&
		b.BookingStatus.Active()
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	if r.f.beforeCreate != nil {
		r.f.beforeCreate()
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	slot := booking.PrimarySlot()
	for _, b := range r.f.bookings {
		if b.BookingID == booking.BookingID {
			return repository.ErrDuplicateBookingID
		}
		if booking.BookingStatus.Active() && sameSlot(b, booking.GuestInfo.Email, booking.ExperienceID, slot.Date, slot.Time) {
			return repository.ErrDuplicateSlot
		}
	}

	copied := *booking
	r.f.bookings = append(r.f.bookings, &copied)
	if r.f.txCreated != nil {
		r.f.txCreated[booking.ID] = true
	}
	return nil
}

func (r *fakeBookingRepo) FindByIDOrBookingID(_ context.Context, key string) (*entity.Booking, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, b := range r.f.bookings {
		if b.ID.String() == key || b.BookingID == key {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindActiveForSlot(_ context.Context, email string, experienceID uuid.UUID, day time.Time, slotTime string) (*entity.Booking, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, b := range r.f.bookings {
		if sameSlot(b, email, experienceID, day, slotTime) {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.Booking
	for i := len(r.f.bookings) - 1; i >= 0; i-- {
		b := r.f.bookings[i]
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, v)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int { return &n }

var testNow = time.Date(2025, 10, 15, 10, 0, 0, 0, time.Local)

func sampleExperience(experienceID string, price string) *entity.Experience {
	return &entity.Experience{
		Base:             entity.Base{CreatedAt: testNow, UpdatedAt: testNow},
		ExperienceID:     experienceID,
		Title:            "Paragliding in Bir Billing",
		ShortDescription: "Fly over the Dhauladhar range",
		Category:         entity.CategoryAdventure,
		Location:         entity.Location{City: "Bir"},
		Images:           []string{"https://img.example/bir.jpg"},
		Price:            dec(price),
		IsActive:         true,
	}
}

func save10() *entity.PromoCode {
	return &entity.PromoCode{
		Code:          "SAVE10",
		Description:   "10% off",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: dec("10"),
		MaxDiscount:   decimal.NewNullDecimal(dec("500")),
		MinOrderValue: dec("1000"),
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 3, 0),
		UsageLimit:    intPtr(1000),
		IsActive:      true,
	}
}

func flat100() *entity.PromoCode {
	return &entity.PromoCode{
		Code:          "FLAT100",
		Description:   "Flat ₹100 off",
		DiscountType:  entity.DiscountFlat,
		DiscountValue: dec("100"),
		MinOrderValue: dec("2000"),
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 3, 0),
		UsageLimit:    intPtr(500),
		IsActive:      true,
	}
}

func newTestBookingService(store *fakeStore, publisher *fakePublisher) *bookingService {
	svc := NewBookingService(store.repository(), publisher, zap.NewNop()).(*bookingService)
	svc.now = func() time.Time { return testNow }
	return svc
}
