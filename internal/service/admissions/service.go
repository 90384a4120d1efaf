// Package admissions owns the vehicle intake workflow: validation, receipt
// numbering, the totals invariant, and the in-memory working set kept
// consistent with the active store.
package admissions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/store"
	"github.com/maximahome/garage/pkg/validation"
)

// Validation failures surfaced before any store call is attempted.
var (
	ErrInvalidPhone = errors.New("شماره تلفن باید با 09 شروع شود و 11 رقم باشد")
	ErrInvalidDate  = errors.New("تاریخ پذیرش باید در فرمت شمسی باشد (مثال: 1403/01/15)")
	ErrNotFound     = errors.New("پذیرش یافت نشد")
)

// numberRetries bounds how often a colliding receipt number is regenerated
// before the last candidate is accepted as-is.
const numberRetries = 3

// Input is the shaped form data for creating or replacing an admission.
type Input struct {
	Customer models.Customer
	Vehicle  models.Vehicle
	Service  models.ServiceInfo
	Parts    []models.Part
	Status   string
}

// Patch carries a partial update; nil fields keep the stored value. When
// Parts or labor cost change the totals are recomputed before persisting.
type Patch struct {
	Customer *models.Customer
	Vehicle  *models.Vehicle
	Service  *models.ServiceInfo
	Parts    *[]models.Part
	Status   *string
}

// Service is the admission entity service.
type Service struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	items  []models.Admission
	loaded bool
}

// NewService wires the admission service onto the active store.
func NewService(st store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger, now: time.Now}
}

// Load refreshes the working set from the store.
func (s *Service) Load(ctx context.Context) ([]models.Admission, error) {
	var items []models.Admission
	if err := s.store.LoadCollection(ctx, store.CollectionAdmissions, &items); err != nil {
		return nil, fmt.Errorf("load admissions: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()

	return s.snapshot(), nil
}

// List returns the working set, loading it on first use.
func (s *Service) List(ctx context.Context) ([]models.Admission, error) {
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

// Find looks up one admission by id, loading the working set from the store
// on first use so direct id operations work right after startup.
func (s *Service) Find(ctx context.Context, id string) (models.Admission, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Admission{}, false, err
	}
	a, ok := s.Get(id)
	return a, ok, nil
}

// Get finds one admission in the already-loaded working set.
func (s *Service) Get(id string) (models.Admission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return models.Admission{}, false
}

// Create validates and persists a new admission, then unshifts it into the
// working set so the panel reflects it without a re-fetch.
func (s *Service) Create(ctx context.Context, in Input) (models.Admission, error) {
	if err := s.validate(in); err != nil {
		return models.Admission{}, err
	}

	now := s.now()
	adm := models.Admission{
		Customer: in.Customer,
		Vehicle:  in.Vehicle,
		Service:  in.Service,
		Status:   in.Status,
		Date:     now.Format(time.RFC3339),
	}

	if adm.Service.AdmissionDate == "" {
		adm.Service.AdmissionDate = ptime.New(now).Format("yyyy/MM/dd")
	}
	if adm.Status == "" {
		adm.Status = models.AdmissionStatusRegistered
	}

	if len(in.Parts) > 0 {
		adm.Parts = models.NormalizeParts(in.Parts)
		totals := models.RecomputeTotals(adm.Parts, adm.Service.ActualCost)
		adm.Totals = &totals
	}

	if adm.Status == models.AdmissionStatusDraft {
		adm.ReceiptNumber = models.NewDraftReceiptNumber(now)
	} else {
		adm.ReceiptNumber = s.freshReceiptNumber(now)
	}

	id, err := s.store.Create(ctx, store.CollectionAdmissions, adm)
	if err != nil {
		return models.Admission{}, fmt.Errorf("save admission: %w", err)
	}
	adm.ID = id

	s.mu.Lock()
	s.items = append([]models.Admission{adm}, s.items...)
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("admission created",
		zap.String("id", id),
		zap.String("receipt", adm.ReceiptNumber))
	return adm, nil
}

// Update merges the patch onto the stored record and persists the merged
// fields. Untouched fields are never dropped: the full merged value of each
// changed top-level field is written, which also covers the local fallback's
// whole-record rewrite.
func (s *Service) Update(ctx context.Context, id string, p Patch) (models.Admission, error) {
	adm, ok, err := s.Find(ctx, id)
	if err != nil {
		return models.Admission{}, err
	}
	if !ok {
		return models.Admission{}, ErrNotFound
	}

	patch := map[string]any{}
	if p.Customer != nil {
		adm.Customer = *p.Customer
		patch["customer"] = adm.Customer
	}
	if p.Vehicle != nil {
		adm.Vehicle = *p.Vehicle
		patch["vehicle"] = adm.Vehicle
	}
	if p.Service != nil {
		adm.Service = *p.Service
		patch["service"] = adm.Service
	}
	if p.Status != nil {
		adm.Status = *p.Status
		patch["status"] = adm.Status
	}

	recompute := p.Parts != nil || p.Service != nil
	if p.Parts != nil {
		adm.Parts = models.NormalizeParts(*p.Parts)
		patch["parts"] = adm.Parts
	}
	if recompute {
		totals := models.RecomputeTotals(adm.Parts, adm.Service.ActualCost)
		adm.Totals = &totals
		patch["totals"] = adm.Totals
	}

	if err := s.validate(Input{Customer: adm.Customer, Service: adm.Service}); err != nil {
		return models.Admission{}, err
	}
	if len(patch) == 0 {
		return adm, nil
	}

	if err := s.store.Update(ctx, store.CollectionAdmissions, id, patch); err != nil {
		return models.Admission{}, fmt.Errorf("update admission %s: %w", id, err)
	}

	s.replace(adm)
	return adm, nil
}

// Delete removes the admission from the store, then from the working set.
// When the store delete fails the working set stays untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, store.CollectionAdmissions, id); err != nil {
		return fmt.Errorf("delete admission %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, a := range s.items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.logger.Info("admission deleted", zap.String("id", id))
	return nil
}

func (s *Service) validate(in Input) error {
	if in.Customer.Phone != "" && !validation.Phone(in.Customer.Phone) {
		return ErrInvalidPhone
	}
	if in.Service.AdmissionDate != "" && !validation.PersianDate(in.Service.AdmissionDate) {
		return ErrInvalidDate
	}
	return nil
}

// freshReceiptNumber regenerates on collision with the working set a few
// times, then accepts the last candidate. The three-digit suffix makes
// same-day collisions unlikely but not impossible.
func (s *Service) freshReceiptNumber(now time.Time) string {
	number := models.NewReceiptNumber(now)
	for i := 0; i < numberRetries && s.receiptTaken(number); i++ {
		number = models.NewReceiptNumber(now)
	}
	return number
}

func (s *Service) receiptTaken(number string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ReceiptNumber == number {
			return true
		}
	}
	return false
}

func (s *Service) replace(adm models.Admission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.items {
		if a.ID == adm.ID {
			s.items[i] = adm
			return
		}
	}
}

func (s *Service) snapshot() []models.Admission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Admission, len(s.items))
	copy(out, s.items)
	return out
}
