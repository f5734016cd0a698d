// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"time"

	"github.com/tejzpr/xref-mcp/internal/legal"
)

// LegalDocument represents a statute, regulation, decision, circular or preparatory work
type LegalDocument struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ExternalID      string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Title           string    `gorm:"not null" json:"title"`
	SourceKind      string    `gorm:"index" json:"source_kind"` // explicit kind, may be empty
	DocumentNumber  string    `gorm:"index" json:"document_number"`
	Status          string    `json:"status"`
	IsPrimarySource bool      `json:"is_primary_source"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for LegalDocument
func (LegalDocument) TableName() string {
	return "legal_documents"
}

// ToLegal converts the row to its read-only domain value
func (d *LegalDocument) ToLegal() *legal.Document {
	return &legal.Document{
		ID:              d.ExternalID,
		Title:           d.Title,
		SourceKind:      d.SourceKind,
		DocumentNumber:  d.DocumentNumber,
		Status:          d.Status,
		IsPrimarySource: d.IsPrimarySource,
	}
}

// LegalProvision represents a numbered provision inside a document
type LegalProvision struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ExternalID      string    `gorm:"uniqueIndex;not null" json:"external_id"`
	DocumentID      uint      `gorm:"index;not null" json:"document_id"`
	ProvisionNumber string    `json:"provision_number"`
	Title           string    `json:"title"`
	Anchor          string    `gorm:"index" json:"anchor"` // canonical citation, e.g. LOV-1998-07-17-56.§3-1
	SortOrder       int       `json:"sort_order"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Foreign key relationship
	Document LegalDocument `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for LegalProvision
func (LegalProvision) TableName() string {
	return "legal_provisions"
}

// ToLegal converts the row to its read-only domain value.
// documentID is the external id of the owning document.
func (p *LegalProvision) ToLegal(documentID string) *legal.Provision {
	return &legal.Provision{
		ID:              p.ExternalID,
		ProvisionNumber: p.ProvisionNumber,
		Title:           p.Title,
		DocumentID:      documentID,
		Anchor:          p.Anchor,
		SortOrder:       p.SortOrder,
		Active:          p.Active,
	}
}

// CrossReference is a saved reference from a provision to a target citation
type CrossReference struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FromProvisionID  uint      `gorm:"index;not null" json:"from_provision_id"`
	ToDocumentNumber string    `gorm:"index;not null" json:"to_document_number"`
	ToAnchor         string    `gorm:"index;not null" json:"to_anchor"`
	RefType          string    `gorm:"not null;default:cites" json:"ref_type"`
	RefText          *string   `gorm:"type:text" json:"ref_text"`
	CreatedAt        time.Time `json:"created_at"`

	// Foreign key relationship
	FromProvision LegalProvision `gorm:"foreignKey:FromProvisionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CrossReference
func (CrossReference) TableName() string {
	return "cross_references"
}

// DocumentStatus constants
const (
	DocumentStatusInForce  = "in_force"
	DocumentStatusRepealed = "repealed"
	DocumentStatusDraft    = "draft"
)
