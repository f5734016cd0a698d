// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejzpr/xref-mcp/internal/database"
	"gorm.io/gorm"
)

// ErrReferenceNotFound is returned when deleting a reference that does not exist
var ErrReferenceNotFound = errors.New("graph: cross reference not found")

// Manager reads and prunes saved cross references
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new graph manager
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetOutgoingReferences retrieves references saved from a provision
func (m *Manager) GetOutgoingReferences(ctx context.Context, provisionID uint) ([]database.CrossReference, error) {
	var refs []database.CrossReference
	err := m.db.WithContext(ctx).Where("from_provision_id = ?", provisionID).Order("id ASC").Find(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get outgoing references: %w", err)
	}
	return refs, nil
}

// GetIncomingReferences retrieves references that point at a provision, either
// by its anchor or by document number plus provision number
func (m *Manager) GetIncomingReferences(ctx context.Context, prov *database.LegalProvision) ([]database.CrossReference, error) {
	numbers := []string{prov.Document.ExternalID}
	if prov.Document.DocumentNumber != "" {
		numbers = append(numbers, prov.Document.DocumentNumber)
	}

	tx := m.db.WithContext(ctx).Where("to_document_number IN ? AND to_anchor = ?", numbers, prov.ProvisionNumber)
	if prov.Anchor != "" {
		tx = tx.Or("to_anchor = ?", prov.Anchor)
	}

	var refs []database.CrossReference
	if err := tx.Order("id ASC").Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to get incoming references: %w", err)
	}
	return refs, nil
}

// DeleteReference deletes a saved reference
func (m *Manager) DeleteReference(ctx context.Context, referenceID uint) error {
	result := m.db.WithContext(ctx).Delete(&database.CrossReference{}, referenceID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cross reference: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrReferenceNotFound, referenceID)
	}
	return nil
}

// resolveTarget finds the provision a saved reference points at
func (m *Manager) resolveTarget(ctx context.Context, ref *database.CrossReference) (*database.LegalProvision, error) {
	var prov database.LegalProvision
	err := m.db.WithContext(ctx).Preload("Document").Where("anchor = ?", ref.ToAnchor).Order("id ASC").First(&prov).Error
	if err == nil {
		return &prov, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = m.db.WithContext(ctx).Preload("Document").
		Joins("JOIN legal_documents ON legal_documents.id = legal_provisions.document_id").
		Where("(legal_documents.document_number = ? OR legal_documents.external_id = ?) AND legal_provisions.provision_number = ?",
			ref.ToDocumentNumber, ref.ToDocumentNumber, ref.ToAnchor).
		Order("legal_provisions.id ASC").
		First(&prov).Error
	if err != nil {
		return nil, err
	}
	return &prov, nil
}
