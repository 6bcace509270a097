package mem

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"

	"librarian/internal/models"
)

const (
	bookTable   = "book"
	memberTable = "member"
)

// newDB validates the schema for a single table and creates the database
func newDB(table *memdb.TableSchema) (*memdb.MemDB, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table.Name: table,
		},
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s schema: %w", table.Name, err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return db, nil
}

func bookTableSchema() *memdb.TableSchema {
	return &memdb.TableSchema{
		Name: bookTable,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:    "id",
				Unique:  true,
				Indexer: &memdb.IntFieldIndex{Field: "ID"},
			},
			// IntFieldIndex keys sort numerically, so walking "seq" gives insertion order
			"seq": {
				Name:    "seq",
				Unique:  true,
				Indexer: &memdb.IntFieldIndex{Field: "Seq"},
			},
		},
	}
}

func memberTableSchema() *memdb.TableSchema {
	return &memdb.TableSchema{
		Name: memberTable,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:    "id",
				Unique:  true,
				Indexer: &memdb.IntFieldIndex{Field: "ID"},
			},
		},
	}
}

// storedBook is the row kept in the book table
type storedBook struct {
	Seq        int
	ID         int
	Title      string
	Author     string
	Genre      string
	PageCount  int
	State      int
	DueAt      time.Time
	BorrowerID int
}

func toStoredBook(seq int, b models.Book) storedBook {
	return storedBook{
		Seq:        seq,
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Genre:      b.Genre,
		PageCount:  b.PageCount,
		State:      int(b.State),
		DueAt:      b.DueAt,
		BorrowerID: b.BorrowerID,
	}
}

func (s storedBook) toModel() models.Book {
	return models.Book{
		ID:         s.ID,
		Title:      s.Title,
		Author:     s.Author,
		Genre:      s.Genre,
		PageCount:  s.PageCount,
		State:      models.BorrowState(s.State),
		DueAt:      s.DueAt,
		BorrowerID: s.BorrowerID,
	}
}

// storedMember is the row kept in the member table
type storedMember struct {
	ID   int
	Name string
}

func (s storedMember) toModel() models.Member {
	return models.Member{ID: s.ID, Name: s.Name}
}
