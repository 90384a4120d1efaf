package admissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/maximahome/garage/internal/domain/models"
)

type memStore struct {
	nextID    int
	creates   int
	updates   []map[string]any
	removeErr error
	stored    []models.Admission
}

func (m *memStore) LoadCollection(_ context.Context, _ string, out any) error {
	raw, err := json.Marshal(m.stored)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (m *memStore) Create(_ context.Context, _ string, _ any) (string, error) {
	m.creates++
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID), nil
}

func (m *memStore) Update(_ context.Context, _ string, _ string, patch map[string]any) error {
	m.updates = append(m.updates, patch)
	return nil
}

func (m *memStore) Remove(_ context.Context, _ string, _ string) error { return m.removeErr }

func (m *memStore) GetSingleton(_ context.Context, _, _ string, _ any) (bool, error) {
	return false, nil
}

func (m *memStore) SetSingleton(_ context.Context, _, _ string, _ any) error { return nil }

func newTestService(st *memStore) *Service {
	s := NewService(st, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	st := &memStore{}
	s := newTestService(st)

	_, err := s.Create(context.Background(), Input{
		Customer: models.Customer{Name: "علی", Phone: "12345"},
	})
	if !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if st.creates != 0 {
		t.Error("store must not be touched when validation fails")
	}
}

func TestCreateRejectsInvalidDate(t *testing.T) {
	s := newTestService(&memStore{})

	_, err := s.Create(context.Background(), Input{
		Customer: models.Customer{Phone: "09123456789"},
		Service:  models.ServiceInfo{AdmissionDate: "2025-03-15"},
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	s := newTestService(&memStore{})

	adm, err := s.Create(context.Background(), Input{
		Customer: models.Customer{Name: "علی", Phone: "09123456789"},
		Vehicle:  models.Vehicle{Model: "پژو 206"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if adm.Status != models.AdmissionStatusRegistered {
		t.Errorf("status = %q, want %q", adm.Status, models.AdmissionStatusRegistered)
	}
	if matched := regexp.MustCompile(`^MH\d{9}$`).MatchString(adm.ReceiptNumber); !matched {
		t.Errorf("receipt number %q does not match the MH layout", adm.ReceiptNumber)
	}
	if adm.Service.AdmissionDate == "" {
		t.Error("blank admission date must default to today's Persian date")
	}
	if adm.ID == "" {
		t.Error("the store-assigned id must be set on the returned record")
	}
	if adm.Totals != nil {
		t.Error("totals must stay nil when no parts were submitted")
	}
}

func TestCreateDraftReceipt(t *testing.T) {
	s := newTestService(&memStore{})

	adm, err := s.Create(context.Background(), Input{
		Customer: models.Customer{Phone: "09123456789"},
		Status:   models.AdmissionStatusDraft,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !models.IsDraftReceipt(adm.ReceiptNumber) {
		t.Errorf("draft admission got receipt %q, want DRAFT_ placeholder", adm.ReceiptNumber)
	}
}

func TestCreateComputesTotals(t *testing.T) {
	s := newTestService(&memStore{})

	adm, err := s.Create(context.Background(), Input{
		Customer: models.Customer{Phone: "09123456789"},
		Service:  models.ServiceInfo{ActualCost: 500000},
		Parts: []models.Part{
			{Name: "فیلتر روغن", Quantity: 2, UnitPrice: 100000},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if adm.Totals == nil {
		t.Fatal("totals must be computed when parts are present")
	}
	if adm.Totals.GrandTotal != 700000 {
		t.Errorf("grandTotal = %d, want 700000", adm.Totals.GrandTotal)
	}
}

func TestCreateUnshiftsIntoWorkingSet(t *testing.T) {
	s := newTestService(&memStore{})
	ctx := context.Background()

	first, err := s.Create(ctx, Input{Customer: models.Customer{Name: "اول", Phone: "09123456789"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := s.Create(ctx, Input{Customer: models.Customer{Name: "دوم", Phone: "09123456789"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 admissions, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Error("newest admission must sit at the head of the working set")
	}
}

func TestUpdateRecomputesTotalsOnPartsChange(t *testing.T) {
	st := &memStore{}
	s := newTestService(st)
	ctx := context.Background()

	adm, err := s.Create(ctx, Input{
		Customer: models.Customer{Phone: "09123456789"},
		Service:  models.ServiceInfo{ActualCost: 200000},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	parts := []models.Part{{Name: "لنت ترمز", Quantity: 1, UnitPrice: 300000}}
	updated, err := s.Update(ctx, adm.ID, Patch{Parts: &parts})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Totals == nil || updated.Totals.GrandTotal != 500000 {
		t.Fatalf("totals after parts patch = %+v, want grandTotal 500000", updated.Totals)
	}

	last := st.updates[len(st.updates)-1]
	if _, ok := last["totals"]; !ok {
		t.Error("recomputed totals must be part of the persisted patch")
	}
}

func TestUpdateFindsStoredRecordOnFreshService(t *testing.T) {
	// A fresh process has an empty working set; a direct id operation must
	// load from the store instead of reporting the record missing.
	st := &memStore{stored: []models.Admission{{
		ID:       "adm-1",
		Customer: models.Customer{Name: "علی", Phone: "09123456789"},
		Service:  models.ServiceInfo{ActualCost: 200000},
		Status:   models.AdmissionStatusRegistered,
		Date:     "2025-03-01T10:00:00Z",
	}}}
	s := newTestService(st)

	status := models.AdmissionStatusCompleted
	updated, err := s.Update(context.Background(), "adm-1", Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update on a stored record must succeed: %v", err)
	}
	if updated.Status != models.AdmissionStatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, models.AdmissionStatusCompleted)
	}
}

func TestUpdateMissingID(t *testing.T) {
	s := newTestService(&memStore{})
	if _, err := s.Update(context.Background(), "no-such-id", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteFailureKeepsWorkingSet(t *testing.T) {
	st := &memStore{}
	s := newTestService(st)
	ctx := context.Background()

	adm, err := s.Create(ctx, Input{Customer: models.Customer{Phone: "09123456789"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	st.removeErr = errors.New("backend down")
	if err := s.Delete(ctx, adm.ID); err == nil {
		t.Fatal("expected delete error")
	}

	if _, ok := s.Get(adm.ID); !ok {
		t.Error("failed delete must leave the working set untouched")
	}
}

func TestDeleteRemovesFromWorkingSet(t *testing.T) {
	s := newTestService(&memStore{})
	ctx := context.Background()

	adm, err := s.Create(ctx, Input{Customer: models.Customer{Phone: "09123456789"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, adm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get(adm.ID); ok {
		t.Error("deleted admission still present in the working set")
	}
}
