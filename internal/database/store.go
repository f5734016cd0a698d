// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tejzpr/xref-mcp/internal/legal"
	"github.com/tejzpr/xref-mcp/internal/xref"
	"gorm.io/gorm"
)

var (
	// ErrDocumentNotFound is returned when a document id does not exist
	ErrDocumentNotFound = errors.New("database: document not found")

	// ErrProvisionNotFound is returned when a provision cannot be found or resolved
	ErrProvisionNotFound = errors.New("database: provision not found")
)

// DefaultLimit applies when a lookup does not ask for a positive limit
const DefaultLimit = 20

// Query constants
const (
	queryExternalIDEquals = "external_id = ?"
	insertBatchSize       = 100
	scanBatchSize         = 200
)


// Store implements document/provision lookup, provision id resolution and
// cross reference persistence on top of gorm
type Store struct {
	db *gorm.DB
}

// NewStore creates a store backed by db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindDocuments searches documents by kind and free text.
// The kind filter uses the same classification as the graph, so documents
// without an explicit kind are matched by their citation.
func (s *Store) FindDocuments(ctx context.Context, q legal.DocumentQuery) ([]legal.Document, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	tx := s.db.WithContext(ctx).Model(&LegalDocument{})
	if q.Text != "" {
		like := "%" + strings.ToLower(q.Text) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(document_number) LIKE ? OR LOWER(external_id) LIKE ?", like, like, like)
	}

	var docs []legal.Document

	if q.Kind == nil {
		var rows []LegalDocument
		if err := tx.Order("title ASC").Limit(limit).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to find documents: %w", err)
		}
		for i := range rows {
			docs = append(docs, *rows[i].ToLegal())
		}
		return docs, nil
	}

	// Kind is derived, so every candidate is classified before ordering and
	// limiting the same way as the unfiltered query.
	want := *q.Kind
	var batch []LegalDocument
	result := tx.FindInBatches(&batch, scanBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			doc := batch[i].ToLegal()
			if doc.Kind() == want {
				docs = append(docs, *doc)
			}
		}
		return nil
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find documents: %w", result.Error)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// FindProvisions lists provisions of one document in sort order, optionally filtered by text
func (s *Store) FindProvisions(ctx context.Context, q legal.ProvisionQuery) ([]legal.Provision, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var doc LegalDocument
	if err := s.db.WithContext(ctx).Where(queryExternalIDEquals, q.DocumentID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, q.DocumentID)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	tx := s.db.WithContext(ctx).Where("document_id = ?", doc.ID)
	if q.Text != "" {
		like := "%" + strings.ToLower(q.Text) + "%"
		tx = tx.Where("LOWER(provision_number) LIKE ? OR LOWER(title) LIKE ? OR LOWER(anchor) LIKE ?", like, like, like)
	}

	var rows []LegalProvision
	if err := tx.Order("sort_order ASC").Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find provisions: %w", err)
	}

	provisions := make([]legal.Provision, 0, len(rows))
	for i := range rows {
		provisions = append(provisions, *rows[i].ToLegal(doc.ExternalID))
	}
	return provisions, nil
}

// GetProvision returns a provision and its document by the provision's external id
func (s *Store) GetProvision(ctx context.Context, provisionID string) (*legal.Provision, *legal.Document, error) {
	var row LegalProvision
	err := s.db.WithContext(ctx).Preload("Document").Where(queryExternalIDEquals, provisionID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrProvisionNotFound, provisionID)
		}
		return nil, nil, fmt.Errorf("failed to get provision: %w", err)
	}
	return row.ToLegal(row.Document.ExternalID), row.Document.ToLegal(), nil
}

// ResolveProvisionID finds the numeric key of prov, by anchor first and
// external id second
func (s *Store) ResolveProvisionID(ctx context.Context, prov *legal.Provision) (uint, error) {
	if prov == nil {
		return 0, ErrProvisionNotFound
	}

	var row LegalProvision
	if prov.Anchor != "" {
		err := s.db.WithContext(ctx).Where("anchor = ?", prov.Anchor).Order("id ASC").First(&row).Error
		if err == nil {
			return row.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("failed to resolve provision by anchor: %w", err)
		}
	}

	err := s.db.WithContext(ctx).Where(queryExternalIDEquals, prov.ID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrProvisionNotFound, prov.ID)
		}
		return 0, fmt.Errorf("failed to resolve provision: %w", err)
	}
	return row.ID, nil
}

// InsertCrossReferences stores the whole batch in one transaction.
// Either every payload is stored or none is. The transaction is retried while
// the database reports it is busy.
func (s *Store) InsertCrossReferences(ctx context.Context, payloads []xref.Payload) (int, error) {
	if len(payloads) == 0 {
		return 0, nil
	}

	rows := crossReferenceRows(payloads)

	err := retryWithBackoff(ctx, MaxRetries, RetryDelay, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(rows, insertBatchSize).Error
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert cross references: %w", err)
	}
	return len(rows), nil
}

// InsertMissingCrossReferences stores the payloads that are not stored yet,
// matching on source provision, target document, target anchor and relation.
// Duplicates inside the batch are stored once. Returns the number inserted.
func (s *Store) InsertMissingCrossReferences(ctx context.Context, payloads []xref.Payload) (int, error) {
	if len(payloads) == 0 {
		return 0, nil
	}

	var inserted int
	err := retryWithBackoff(ctx, MaxRetries, RetryDelay, func() error {
		inserted = 0
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seen := make(map[referenceKey]bool, len(payloads))
			var missing []CrossReference
			for _, row := range crossReferenceRows(payloads) {
				key := referenceKey{row.FromProvisionID, row.ToDocumentNumber, row.ToAnchor, row.RefType}
				if seen[key] {
					continue
				}
				seen[key] = true

				var count int64
				err := tx.Model(&CrossReference{}).
					Where("from_provision_id = ? AND to_document_number = ? AND to_anchor = ? AND ref_type = ?",
						row.FromProvisionID, row.ToDocumentNumber, row.ToAnchor, row.RefType).
					Count(&count).Error
				if err != nil {
					return err
				}
				if count == 0 {
					missing = append(missing, row)
				}
			}
			if len(missing) == 0 {
				return nil
			}
			if err := tx.CreateInBatches(missing, insertBatchSize).Error; err != nil {
				return err
			}
			inserted = len(missing)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert cross references: %w", err)
	}
	return inserted, nil
}

type referenceKey struct {
	fromProvisionID uint
	toDocument      string
	toAnchor        string
	refType         string
}

func crossReferenceRows(payloads []xref.Payload) []CrossReference {
	rows := make([]CrossReference, 0, len(payloads))
	for _, p := range payloads {
		rows = append(rows, CrossReference{
			FromProvisionID:  p.FromProvisionID,
			ToDocumentNumber: p.ToDocumentNumber,
			ToAnchor:         p.ToAnchor,
			RefType:          p.RefType,
			RefText:          p.RefText,
		})
	}
	return rows
}

// SaveDocument inserts or updates a document and its provisions by external id
func (s *Store) SaveDocument(ctx context.Context, doc *LegalDocument, provisions []LegalProvision) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing LegalDocument
		err := tx.Where(queryExternalIDEquals, doc.ExternalID).First(&existing).Error
		switch {
		case err == nil:
			doc.ID = existing.ID
			doc.CreatedAt = existing.CreatedAt
			if err := tx.Save(doc).Error; err != nil {
				return fmt.Errorf("failed to update document %s: %w", doc.ExternalID, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(doc).Error; err != nil {
				return fmt.Errorf("failed to create document %s: %w", doc.ExternalID, err)
			}
		default:
			return fmt.Errorf("failed to get document %s: %w", doc.ExternalID, err)
		}

		for i := range provisions {
			prov := &provisions[i]
			prov.DocumentID = doc.ID

			var current LegalProvision
			err := tx.Where(queryExternalIDEquals, prov.ExternalID).First(&current).Error
			switch {
			case err == nil:
				prov.ID = current.ID
				prov.CreatedAt = current.CreatedAt
				if err := tx.Omit("Document").Save(prov).Error; err != nil {
					return fmt.Errorf("failed to update provision %s: %w", prov.ExternalID, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Omit("Document").Create(prov).Error; err != nil {
					return fmt.Errorf("failed to create provision %s: %w", prov.ExternalID, err)
				}
			default:
				return fmt.Errorf("failed to get provision %s: %w", prov.ExternalID, err)
			}
		}
		return nil
	})
}
