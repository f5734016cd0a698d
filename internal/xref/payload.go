// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package xref

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tejzpr/xref-mcp/internal/draft"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// ErrIncompleteRelation matches every IncompleteRelationError
var ErrIncompleteRelation = errors.New("xref: incomplete relation")

// IncompleteRelationError is returned when a draft lacks a reference needed for storage.
// It is recoverable by selecting the missing entity and retrying.
type IncompleteRelationError struct {
	TempID  string
	Missing []string
}

func (e *IncompleteRelationError) Error() string {
	if e.TempID == "" {
		return fmt.Sprintf("incomplete relation: missing %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("incomplete relation %s: missing %s", e.TempID, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is match ErrIncompleteRelation
func (e *IncompleteRelationError) Is(target error) bool {
	return target == ErrIncompleteRelation
}

// Payload is the storage shape of one cross reference.
// RefText is nil rather than empty when there is no note.
type Payload struct {
	FromProvisionID  uint    `json:"from_provision_id"`
	ToDocumentNumber string  `json:"to_document_number"`
	ToAnchor         string  `json:"to_anchor"`
	RefType          string  `json:"ref_type"`
	RefText          *string `json:"ref_text"`
}

// Build validates rel and serializes it. fromID is the resolved numeric key of
// the source provision; resolving it is the caller's job (see Resolver).
func Build(rel draft.Relation, fromID uint) (Payload, error) {
	var missing []string
	if rel.FromProvision == nil {
		missing = append(missing, "from_provision")
	}
	if rel.ToProvision == nil {
		missing = append(missing, "to_provision")
	}
	if rel.ToDocument == nil {
		missing = append(missing, "to_document")
	}
	if len(missing) > 0 {
		return Payload{}, &IncompleteRelationError{TempID: rel.TempID, Missing: missing}
	}

	return Payload{
		FromProvisionID:  fromID,
		ToDocumentNumber: documentNumber(rel.ToDocument),
		ToAnchor:         anchor(rel.ToProvision),
		RefType:          rel.Kind.String(),
		RefText:          refText(rel.Note),
	}, nil
}

func documentNumber(doc *legal.Document) string {
	if doc.DocumentNumber != "" {
		return doc.DocumentNumber
	}
	return doc.ID
}

func anchor(prov *legal.Provision) string {
	if prov.Anchor != "" {
		return prov.Anchor
	}
	return prov.ProvisionNumber
}

func refText(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}

// Resolver maps a display provision to the numeric key used by storage
type Resolver interface {
	ResolveProvisionID(ctx context.Context, prov *legal.Provision) (uint, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(ctx context.Context, prov *legal.Provision) (uint, error)

// ResolveProvisionID calls f
func (f ResolverFunc) ResolveProvisionID(ctx context.Context, prov *legal.Provision) (uint, error) {
	return f(ctx, prov)
}

// BuildBatch resolves and builds a payload for every relation, in order.
// It stops at the first failure and returns no partial batch.
func BuildBatch(ctx context.Context, relations []draft.Relation, resolver Resolver) ([]Payload, error) {
	payloads := make([]Payload, 0, len(relations))
	for _, rel := range relations {
		if rel.FromProvision == nil {
			return nil, &IncompleteRelationError{TempID: rel.TempID, Missing: []string{"from_provision"}}
		}

		fromID, err := resolver.ResolveProvisionID(ctx, rel.FromProvision)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve provision %s: %w", rel.FromProvision.ID, err)
		}

		payload, err := Build(rel, fromID)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}
