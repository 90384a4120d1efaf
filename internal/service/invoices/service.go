// Package invoices owns billing documents generated from admissions. An
// invoice copies its source admission at generation time and is edited
// independently afterwards.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/service/admissions"
	"github.com/maximahome/garage/internal/store"
)

var (
	ErrNotFound      = errors.New("فاکتور یافت نشد")
	ErrUnknownStatus = errors.New("وضعیت پرداخت نامعتبر است")
)

const numberRetries = 3

// PaymentPatch updates an invoice's parts and payment status. Totals are
// always recomputed from the merged parts before persisting; totals supplied
// by callers are ignored so stored totals can never disagree with the parts.
type PaymentPatch struct {
	Parts  *[]models.Part
	Status *string
}

// Service is the invoice entity service.
type Service struct {
	store      store.Store
	admissions *admissions.Service
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.RWMutex
	items  []models.Invoice
	loaded bool
}

// NewService wires the invoice service onto the active store and the
// admission working set it generates from.
func NewService(st store.Store, adm *admissions.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, admissions: adm, logger: logger, now: time.Now}
}

// Load refreshes the working set from the store.
func (s *Service) Load(ctx context.Context) ([]models.Invoice, error) {
	var items []models.Invoice
	if err := s.store.LoadCollection(ctx, store.CollectionInvoices, &items); err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()

	return s.snapshot(), nil
}

// List returns the working set, loading it on first use.
func (s *Service) List(ctx context.Context) ([]models.Invoice, error) {
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

// find looks up one invoice by id, loading the working set from the store on
// first use so direct id operations work right after startup.
func (s *Service) find(ctx context.Context, id string) (models.Invoice, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Invoice{}, false, err
	}
	inv, ok := s.Get(id)
	return inv, ok, nil
}

// Get finds one invoice in the already-loaded working set.
func (s *Service) Get(id string) (models.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.items {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invoice{}, false
}

// GenerateFromAdmission copies the admission's customer, vehicle, service,
// parts and totals into a new invoice with a fresh number. The payment
// status defaults to unpaid unless the admission's status tag already
// carries a payment meaning.
func (s *Service) GenerateFromAdmission(ctx context.Context, admissionID string) (models.Invoice, error) {
	adm, ok, err := s.admissions.Find(ctx, admissionID)
	if err != nil {
		return models.Invoice{}, err
	}
	if !ok {
		return models.Invoice{}, admissions.ErrNotFound
	}

	now := s.now()
	inv := models.Invoice{
		InvoiceNumber: s.freshInvoiceNumber(now),
		Customer:      adm.Customer,
		Vehicle:       adm.Vehicle,
		Service:       adm.Service,
		Status:        models.InvoiceStatusUnpaid,
		Date:          now.Format(time.RFC3339),
	}

	// Copy, not reference: the invoice detaches from the admission here.
	if len(adm.Parts) > 0 {
		inv.Parts = append([]models.Part(nil), adm.Parts...)
	}
	if adm.Totals != nil {
		t := *adm.Totals
		inv.Totals = &t
	}

	if status, ok := models.PaymentStatus(adm.Status); ok {
		inv.Status = status
	}

	id, err := s.store.Create(ctx, store.CollectionInvoices, inv)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	inv.ID = id

	s.mu.Lock()
	s.items = append([]models.Invoice{inv}, s.items...)
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("invoice generated",
		zap.String("id", id),
		zap.String("number", inv.InvoiceNumber),
		zap.String("admission", admissionID))
	return inv, nil
}

// UpdatePaymentAndParts merges the patch, recomputes totals from the merged
// parts, and persists parts, totals and status together.
func (s *Service) UpdatePaymentAndParts(ctx context.Context, id string, p PaymentPatch) (models.Invoice, error) {
	inv, ok, err := s.find(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	if !ok {
		return models.Invoice{}, ErrNotFound
	}

	if p.Status != nil {
		if !models.ValidInvoiceStatus(*p.Status) {
			return models.Invoice{}, ErrUnknownStatus
		}
		inv.Status = *p.Status
	}
	if p.Parts != nil {
		inv.Parts = models.NormalizeParts(*p.Parts)
	}

	totals := models.RecomputeTotals(inv.Parts, inv.Service.ActualCost)
	inv.Totals = &totals

	patch := map[string]any{
		"parts":  inv.Parts,
		"totals": inv.Totals,
		"status": inv.Status,
	}
	if err := s.store.Update(ctx, store.CollectionInvoices, id, patch); err != nil {
		return models.Invoice{}, fmt.Errorf("update invoice %s: %w", id, err)
	}

	s.replace(inv)
	return inv, nil
}

// Delete removes the invoice from the store, then from the working set.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, store.CollectionInvoices, id); err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, inv := range s.items {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.logger.Info("invoice deleted", zap.String("id", id))
	return nil
}

func (s *Service) freshInvoiceNumber(now time.Time) string {
	number := models.NewInvoiceNumber(now)
	for i := 0; i < numberRetries && s.numberTaken(number); i++ {
		number = models.NewInvoiceNumber(now)
	}
	return number
}

func (s *Service) numberTaken(number string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.items {
		if inv.InvoiceNumber == number {
			return true
		}
	}
	return false
}

func (s *Service) replace(inv models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == inv.ID {
			s.items[i] = inv
			return
		}
	}
}

func (s *Service) snapshot() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Invoice, len(s.items))
	copy(out, s.items)
	return out
}
