// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legal

// Document is a legal source as returned by the lookup store. It is read-only.
type Document struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SourceKind      string `json:"source_kind,omitempty"`     // explicit kind, may be empty or unreliable
	DocumentNumber  string `json:"document_number,omitempty"` // human citation
	Status          string `json:"status,omitempty"`
	IsPrimarySource bool   `json:"is_primary_source"`
}

// Kind classifies the document using its explicit kind and citation
func (d *Document) Kind() SourceKind {
	return Classify(d.DocumentNumber, d.SourceKind)
}

// Provision is a single section of a Document. It is read-only.
type Provision struct {
	ID              string `json:"id"`
	ProvisionNumber string `json:"provision_number"`
	Title           string `json:"title,omitempty"`
	DocumentID      string `json:"document_id"`
	Anchor          string `json:"anchor,omitempty"` // e.g. LOV-1998-07-17-56.§3-1
	SortOrder       int    `json:"sort_order"`
	Active          bool   `json:"active"`
}

// Label returns the provision number, or its title when unnumbered
func (p *Provision) Label() string {
	if p.ProvisionNumber != "" {
		return p.ProvisionNumber
	}
	return p.Title
}

// DocumentQuery filters a document lookup
type DocumentQuery struct {
	Kind  *SourceKind
	Text  string
	Limit int
}

// ProvisionQuery filters a provision lookup within one document
type ProvisionQuery struct {
	DocumentID string
	Text       string
	Limit      int
}
