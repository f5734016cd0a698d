// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalog loads legal documents and their provisions from YAML or
// TOML files into the database.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tejzpr/xref-mcp/internal/database"
	"github.com/tejzpr/xref-mcp/internal/legal"
	"github.com/tejzpr/xref-mcp/internal/xref"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog wraps every validation failure
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

// Catalog is the root of a catalog file
type Catalog struct {
	Documents  []Document  `yaml:"documents" toml:"documents"`
	References []Reference `yaml:"references,omitempty" toml:"references,omitempty"`
}

// Document is one catalog entry
type Document struct {
	ID             string      `yaml:"id" toml:"id"`
	Title          string      `yaml:"title" toml:"title"`
	SourceKind     string      `yaml:"source_kind,omitempty" toml:"source_kind,omitempty"`
	DocumentNumber string      `yaml:"document_number,omitempty" toml:"document_number,omitempty"`
	Status         string      `yaml:"status,omitempty" toml:"status,omitempty"`
	Primary        bool        `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Provisions     []Provision `yaml:"provisions,omitempty" toml:"provisions,omitempty"`
}

// Provision is one provision of a catalog document
type Provision struct {
	ID        string `yaml:"id" toml:"id"`
	Number    string `yaml:"number" toml:"number"`
	Title     string `yaml:"title,omitempty" toml:"title,omitempty"`
	Anchor    string `yaml:"anchor,omitempty" toml:"anchor,omitempty"`
	SortOrder int    `yaml:"sort_order,omitempty" toml:"sort_order,omitempty"` // defaults to position in the list
	Active    *bool  `yaml:"active,omitempty" toml:"active,omitempty"`         // defaults to true
}

// Reference is a cross reference that already exists in the source material.
// It is stored the way the editor stores a saved draft: From is the provision
// being referred to and the target is the referring provision, so an
// enabled_by reference runs from the statute to the regulation it enables.
type Reference struct {
	From           string `yaml:"from" toml:"from"` // provision id
	DocumentNumber string `yaml:"to_document" toml:"to_document"`
	Anchor         string `yaml:"to_anchor" toml:"to_anchor"`
	Type           string `yaml:"type,omitempty" toml:"type,omitempty"`
	Note           string `yaml:"note,omitempty" toml:"note,omitempty"`
}

// Store is what Import writes to
type Store interface {
	SaveDocument(ctx context.Context, doc *database.LegalDocument, provisions []database.LegalProvision) error
	xref.Resolver
	InsertMissingCrossReferences(ctx context.Context, payloads []xref.Payload) (int, error)
}

// Format is a catalog file encoding
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFor picks the format from a file extension; anything but .toml is YAML
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(data, FormatFor(path))
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	return Decode(data, FormatYAML)
}

// Decode decodes and validates a catalog in the given format
func Decode(data []byte, format Format) (*Catalog, error) {
	var cat Catalog
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cat)
	default:
		err = yaml.Unmarshal(data, &cat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks required fields and id uniqueness
func (c *Catalog) Validate() error {
	docs := make(map[string]bool)
	provs := make(map[string]bool)

	for i, doc := range c.Documents {
		if doc.ID == "" {
			return fmt.Errorf("%w: document %d has no id", ErrInvalidCatalog, i)
		}
		if doc.Title == "" {
			return fmt.Errorf("%w: document %s has no title", ErrInvalidCatalog, doc.ID)
		}
		if docs[doc.ID] {
			return fmt.Errorf("%w: duplicate document id %s", ErrInvalidCatalog, doc.ID)
		}
		docs[doc.ID] = true

		for j, prov := range doc.Provisions {
			if prov.ID == "" {
				return fmt.Errorf("%w: provision %d of %s has no id", ErrInvalidCatalog, j, doc.ID)
			}
			if provs[prov.ID] {
				return fmt.Errorf("%w: duplicate provision id %s", ErrInvalidCatalog, prov.ID)
			}
			provs[prov.ID] = true
		}
	}

	for i, ref := range c.References {
		if !provs[ref.From] {
			return fmt.Errorf("%w: reference %d starts at unknown provision %q", ErrInvalidCatalog, i, ref.From)
		}
		if ref.DocumentNumber == "" || ref.Anchor == "" {
			return fmt.Errorf("%w: reference %d has no target", ErrInvalidCatalog, i)
		}
		if ref.Type != "" {
			if _, err := legal.ParseRelationKind(ref.Type); err != nil {
				return fmt.Errorf("%w: reference %d: %v", ErrInvalidCatalog, i, err)
			}
		}
	}
	return nil
}

// Rows converts a catalog document to database rows
func (d *Document) Rows() (*database.LegalDocument, []database.LegalProvision) {
	doc := &database.LegalDocument{
		ExternalID:      d.ID,
		Title:           d.Title,
		SourceKind:      d.SourceKind,
		DocumentNumber:  d.DocumentNumber,
		Status:          d.Status,
		IsPrimarySource: d.Primary,
	}
	if doc.Status == "" {
		doc.Status = database.DocumentStatusInForce
	}

	provisions := make([]database.LegalProvision, 0, len(d.Provisions))
	for i, p := range d.Provisions {
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		order := p.SortOrder
		if order == 0 {
			order = i + 1
		}
		provisions = append(provisions, database.LegalProvision{
			ExternalID:      p.ID,
			ProvisionNumber: p.Number,
			Title:           p.Title,
			Anchor:          p.Anchor,
			SortOrder:       order,
			Active:          active,
		})
	}
	return doc, provisions
}

// Result summarizes an import
type Result struct {
	Documents  int
	Provisions int
	References int
}

// Import upserts every document, then inserts the catalog's references in one
// batch. References already stored are skipped, so importing the same catalog
// again leaves the reference table unchanged.
func Import(ctx context.Context, store Store, cat *Catalog) (Result, error) {
	var res Result

	for i := range cat.Documents {
		doc, provisions := cat.Documents[i].Rows()
		if err := store.SaveDocument(ctx, doc, provisions); err != nil {
			return res, err
		}
		res.Documents++
		res.Provisions += len(provisions)
	}

	if len(cat.References) == 0 {
		return res, nil
	}

	payloads := make([]xref.Payload, 0, len(cat.References))
	for i, ref := range cat.References {
		fromID, err := store.ResolveProvisionID(ctx, &legal.Provision{ID: ref.From})
		if err != nil {
			return res, fmt.Errorf("reference %d: %w", i, err)
		}
		p := xref.Payload{
			FromProvisionID:  fromID,
			ToDocumentNumber: ref.DocumentNumber,
			ToAnchor:         ref.Anchor,
			RefType:          ref.Type,
		}
		if p.RefType == "" {
			p.RefType = legal.DefaultRelation.String()
		}
		if ref.Note != "" {
			note := ref.Note
			p.RefText = &note
		}
		payloads = append(payloads, p)
	}

	n, err := store.InsertMissingCrossReferences(ctx, payloads)
	if err != nil {
		return res, err
	}
	res.References = n
	return res, nil
}
