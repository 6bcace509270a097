package mem

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"librarian/internal/models"
	"librarian/internal/storage"
)

// Registry is an in-memory member registry backed by go-memdb
type Registry struct {
	db *memdb.MemDB
}

var _ storage.Registry = (*Registry)(nil)

// NewRegistry creates an empty registry
func NewRegistry() (*Registry, error) {
	db, err := newDB(memberTableSchema())
	if err != nil {
		return nil, err
	}
	return &Registry{db: db}, nil
}

// Register stores a member under ID count+1
func (r *Registry) Register(name string) (models.Member, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	count, err := memberCount(txn)
	if err != nil {
		return models.Member{}, fmt.Errorf("registering member: %w", err)
	}

	m := storedMember{ID: count + 1, Name: name}
	if err := txn.Insert(memberTable, m); err != nil {
		return models.Member{}, fmt.Errorf("registering member: %w", err)
	}

	txn.Commit()
	return m.toModel(), nil
}

// Get returns the member for a valid ID
func (r *Registry) Get(id int) (models.Member, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	count, err := memberCount(txn)
	if err != nil {
		return models.Member{}, fmt.Errorf("searching member %d: %w", id, err)
	}
	if id < 1 || id > count {
		return models.Member{}, fmt.Errorf("member %d: %w", id, storage.ErrNotFound)
	}

	raw, err := txn.First(memberTable, "id", id)
	if err != nil {
		return models.Member{}, fmt.Errorf("searching member %d: %w", id, err)
	}
	if raw == nil {
		return models.Member{}, fmt.Errorf("member %d: %w", id, storage.ErrNotFound)
	}
	return raw.(storedMember).toModel(), nil
}

// Len returns the number of registered members
func (r *Registry) Len() int {
	txn := r.db.Txn(false)
	defer txn.Abort()

	count, err := memberCount(txn)
	if err != nil {
		return 0
	}
	return count
}

// memberCount relies on IDs being allocated 1..n with no removals
func memberCount(txn *memdb.Txn) (int, error) {
	raw, err := txn.Last(memberTable, "id")
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	return raw.(storedMember).ID, nil
}
