// Package bookings owns shop appointments made from the public site: the
// workflow statuses the admin panel drives, sample-data seeding for fresh
// installs, CSV export, and the optional confirmation SMS.
package bookings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/store"
	"github.com/maximahome/garage/pkg/clients/sms"
	"github.com/maximahome/garage/pkg/validation"
)

var (
	ErrInvalidPhone  = errors.New("شماره تلفن باید با 09 شروع شود و 11 رقم باشد")
	ErrNotFound      = errors.New("رزرو یافت نشد")
	ErrUnknownStatus = errors.New("وضعیت رزرو نامعتبر است")
)

// suppressSamplesID is the auxiliary flag that keeps sample bookings from
// reappearing after the admin clears all data.
const suppressSamplesID = "suppress-sample-bookings"

type flagDoc struct {
	Value bool `bson:"value" json:"value"`
}

// Input is the booking form payload.
type Input struct {
	Name     string
	Phone    string
	CarModel string
	Service  string
	Date     string
	Time     string
	Notes    string
}

// Patch carries a partial booking edit; nil fields keep the stored value.
type Patch struct {
	Name     *string
	Phone    *string
	CarModel *string
	Service  *string
	Date     *string
	Time     *string
	Notes    *string
}

// Service is the booking entity service.
type Service struct {
	store  store.Store
	sms    sms.Client
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	items  []models.Booking
	loaded bool
}

// NewService wires the booking service. smsClient may be nil when no gateway
// is configured; confirmations then stay on-screen only.
func NewService(st store.Store, smsClient sms.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, sms: smsClient, logger: logger, now: time.Now}
}

// Load refreshes the working set from the store.
func (s *Service) Load(ctx context.Context) ([]models.Booking, error) {
	var items []models.Booking
	if err := s.store.LoadCollection(ctx, store.CollectionBookings, &items); err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()

	return s.snapshot(), nil
}

// List returns the working set, loading it on first use.
func (s *Service) List(ctx context.Context) ([]models.Booking, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// find looks up one booking by id, loading the working set from the store on
// first use so direct id operations work right after startup.
func (s *Service) find(ctx context.Context, id string) (models.Booking, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Booking{}, false, err
	}
	b, ok := s.get(id)
	return b, ok, nil
}

// Create validates and persists a booking with the pending status.
func (s *Service) Create(ctx context.Context, in Input) (models.Booking, error) {
	if !validation.Phone(in.Phone) {
		return models.Booking{}, ErrInvalidPhone
	}

	b := models.Booking{
		Name:      in.Name,
		Phone:     in.Phone,
		CarModel:  in.CarModel,
		Service:   in.Service,
		Date:      in.Date,
		Time:      in.Time,
		Status:    models.BookingStatusPending,
		Notes:     in.Notes,
		CreatedAt: s.now().Format(time.RFC3339),
	}

	id, err := s.store.Create(ctx, store.CollectionBookings, b)
	if err != nil {
		return models.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	b.ID = id

	s.mu.Lock()
	s.items = append([]models.Booking{b}, s.items...)
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("booking created", zap.String("id", id), zap.String("date", b.Date))
	return b, nil
}

// UpdateStatus moves a booking through the workflow. Transitions are
// UI-driven and not restricted beyond membership in the known status set.
// A confirmation SMS goes out best-effort when the gateway is configured.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return models.Booking{}, ErrUnknownStatus
	}

	b, ok, err := s.find(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !ok {
		return models.Booking{}, ErrNotFound
	}

	if err := s.store.Update(ctx, store.CollectionBookings, id, map[string]any{"status": status}); err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}

	b.Status = status
	s.replace(b)

	if status == models.BookingStatusConfirmed && s.sms != nil {
		msg := fmt.Sprintf("رزرو شما برای %s ساعت %s تأیید شد. مکسیما هوم", b.Date, b.Time)
		if err := s.sms.Send(ctx, b.Phone, msg); err != nil {
			s.logger.Warn("confirmation sms failed", zap.String("id", id), zap.Error(err))
		}
	}

	return b, nil
}

// Update merges the patch onto the stored booking.
func (s *Service) Update(ctx context.Context, id string, p Patch) (models.Booking, error) {
	b, ok, err := s.find(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !ok {
		return models.Booking{}, ErrNotFound
	}

	patch := map[string]any{}
	set := func(key string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			patch[key] = *src
		}
	}
	set("name", &b.Name, p.Name)
	set("phone", &b.Phone, p.Phone)
	set("carModel", &b.CarModel, p.CarModel)
	set("service", &b.Service, p.Service)
	set("date", &b.Date, p.Date)
	set("time", &b.Time, p.Time)
	set("notes", &b.Notes, p.Notes)

	if b.Phone != "" && !validation.Phone(b.Phone) {
		return models.Booking{}, ErrInvalidPhone
	}
	if len(patch) == 0 {
		return b, nil
	}

	if err := s.store.Update(ctx, store.CollectionBookings, id, patch); err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}

	s.replace(b)
	return b, nil
}

// Delete removes the booking from the store, then from the working set.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, store.CollectionBookings, id); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, b := range s.items {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return nil
}

// ClearAll wipes every booking and sets the suppress flag so samples do not
// reappear. Destructive and irreversible, gated by a confirmation in the UI.
func (s *Service) ClearAll(ctx context.Context) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	for _, b := range items {
		if err := s.store.Remove(ctx, store.CollectionBookings, b.ID); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
	}

	if err := s.store.SetSingleton(ctx, store.CollectionFlags, suppressSamplesID, flagDoc{Value: true}); err != nil {
		return fmt.Errorf("set suppress flag: %w", err)
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.logger.Info("all bookings cleared")
	return nil
}

// SeedSamples populates the demo bookings on a fresh install: only when the
// store holds no bookings and the suppress flag was never set.
func (s *Service) SeedSamples(ctx context.Context) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return nil
	}

	var flag flagDoc
	found, err := s.store.GetSingleton(ctx, store.CollectionFlags, suppressSamplesID, &flag)
	if err != nil {
		return fmt.Errorf("read suppress flag: %w", err)
	}
	if found && flag.Value {
		return nil
	}

	for _, b := range sampleBookings() {
		id, err := s.store.Create(ctx, store.CollectionBookings, b)
		if err != nil {
			return fmt.Errorf("seed bookings: %w", err)
		}
		b.ID = id
		s.mu.Lock()
		s.items = append([]models.Booking{b}, s.items...)
		s.mu.Unlock()
	}

	s.logger.Info("sample bookings seeded", zap.Int("count", len(sampleBookings())))
	return nil
}

// ExportCSV writes all bookings as UTF-8 comma-delimited rows with the admin
// panel's Persian header.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"نام", "تلفن", "مدل خودرو", "خدمات", "تاریخ", "ساعت", "وضعیت", "یادداشت"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range items {
		row := []string{
			b.Name,
			b.Phone,
			b.CarModel,
			b.Service,
			b.Date,
			b.Time,
			models.BookingStatusLabel(b.Status),
			b.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *Service) get(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.items {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

func (s *Service) replace(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == b.ID {
			s.items[i] = b
			return
		}
	}
}

func (s *Service) snapshot() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.items))
	copy(out, s.items)
	return out
}

func sampleBookings() []models.Booking {
	return []models.Booking{
		{
			Name:      "احمد محمدی",
			Phone:     "09123456789",
			CarModel:  "پژو 206",
			Service:   "تعمیرات موتور",
			Date:      "2024-01-15",
			Time:      "10:00",
			Status:    models.BookingStatusConfirmed,
			Notes:     "مشکل در استارت خودرو",
			CreatedAt: "2024-01-10T00:00:00Z",
		},
		{
			Name:      "فاطمه احمدی",
			Phone:     "09187654321",
			CarModel:  "سمند",
			Service:   "سرویس و تعویض روغن",
			Date:      "2024-01-16",
			Time:      "14:00",
			Status:    models.BookingStatusPending,
			Notes:     "سرویس دوره‌ای",
			CreatedAt: "2024-01-11T00:00:00Z",
		},
		{
			Name:      "علی رضایی",
			Phone:     "09151234567",
			CarModel:  "تیبا",
			Service:   "تعمیرات گیربکس",
			Date:      "2024-01-17",
			Time:      "09:00",
			Status:    models.BookingStatusCompleted,
			Notes:     "صدا از گیربکس",
			CreatedAt: "2024-01-12T00:00:00Z",
		},
		{
			Name:      "مریم کریمی",
			Phone:     "09162345678",
			CarModel:  "دنا",
			Service:   "سیستم برق خودرو",
			Date:      "2024-01-18",
			Time:      "16:00",
			Status:    models.BookingStatusCancelled,
			Notes:     "مشکل در چراغ‌ها",
			CreatedAt: "2024-01-13T00:00:00Z",
		},
		{
			Name:      "حسن نوری",
			Phone:     "09173456789",
			CarModel:  "کیا سراتو",
			Service:   "تعمیرات جلوبندی",
			Date:      "2024-01-19",
			Time:      "11:00",
			Status:    models.BookingStatusConfirmed,
			Notes:     "لرزش در فرمان",
			CreatedAt: "2024-01-14T00:00:00Z",
		},
	}
}
