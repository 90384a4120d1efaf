// Package store exposes the uniform CRUD contract the entity services talk
// to, regardless of whether the remote document database or the local
// persisted fallback is backing it. The backend is chosen once per process:
// either the remote store binds during startup, or every call goes to the
// local fallback from the start. There is no mid-session failover.
package store

import (
	"context"
	"errors"
)

// Collection names shared by both backends.
const (
	CollectionAdmissions = "admissions"
	CollectionInvoices   = "invoices"
	CollectionBookings   = "bookings"
	CollectionSite       = "site"
	CollectionFlags      = "flags"
)

// SiteContentID is the fixed document id of the site content singleton.
const SiteContentID = "content"

// ErrUnavailable is returned for every operation when the remote store was
// configured but never became ready within the bounded startup wait.
var ErrUnavailable = errors.New("store: backend unavailable")

// Store is the collection-scoped CRUD contract.
//
// LoadCollection decodes the full collection into out (a pointer to a slice),
// ordered newest-first by the "date" field. Create persists doc and returns
// the assigned id. Update applies a field patch to one document; Remove
// deletes it. Both are silent no-ops when the id does not exist: operating on
// a stale id is accepted, and Remove is idempotent.
type Store interface {
	LoadCollection(ctx context.Context, collection string, out any) error
	Create(ctx context.Context, collection string, doc any) (string, error)
	Update(ctx context.Context, collection string, id string, patch map[string]any) error
	Remove(ctx context.Context, collection string, id string) error

	// GetSingleton and SetSingleton handle fixed-id documents such as the
	// site content blob and auxiliary flags. GetSingleton reports found=false
	// without error when the document was never written.
	GetSingleton(ctx context.Context, collection, id string, out any) (bool, error)
	SetSingleton(ctx context.Context, collection, id string, doc any) error
}
