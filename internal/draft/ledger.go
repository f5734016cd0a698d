// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// ErrIncompleteDraft is returned when a draft is missing an entity reference or relation
var ErrIncompleteDraft = errors.New("draft: incomplete relation")

// Input is what the editor supplies when adding a relation
type Input struct {
	FromProvision *legal.Provision
	ToProvision   *legal.Provision
	FromDocument  *legal.Document
	ToDocument    *legal.Document
	Kind          legal.RelationKind
	Note          string
}

// Relation is an unsaved cross reference held by a Ledger.
// TempID is assigned once by the ledger and is the only removal key.
type Relation struct {
	TempID        string             `json:"temp_id"`
	FromProvision *legal.Provision   `json:"from_provision"`
	ToProvision   *legal.Provision   `json:"to_provision"`
	FromDocument  *legal.Document    `json:"from_document"`
	ToDocument    *legal.Document    `json:"to_document"`
	Kind          legal.RelationKind `json:"relation"`
	Note          string             `json:"note,omitempty"`
}

// Missing lists the names of absent entity references
func (in Input) Missing() []string {
	var missing []string
	if in.FromProvision == nil {
		missing = append(missing, "from_provision")
	}
	if in.ToProvision == nil {
		missing = append(missing, "to_provision")
	}
	if in.FromDocument == nil {
		missing = append(missing, "from_document")
	}
	if in.ToDocument == nil {
		missing = append(missing, "to_document")
	}
	if !in.Kind.Valid() {
		missing = append(missing, "relation")
	}
	return missing
}

// Ledger is the ordered set of draft relations for one editing session.
// It is not safe for concurrent use; the owning session is the only writer.
type Ledger struct {
	entries []Relation
	newID   func() string
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{newID: uuid.NewString}
}

// Add appends a relation and returns its fresh temporary identifier
func (l *Ledger) Add(in Input) (string, error) {
	if missing := in.Missing(); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(missing, ", "))
	}

	id := l.newID()
	l.entries = append(l.entries, Relation{
		TempID:        id,
		FromProvision: in.FromProvision,
		ToProvision:   in.ToProvision,
		FromDocument:  in.FromDocument,
		ToDocument:    in.ToDocument,
		Kind:          in.Kind,
		Note:          in.Note,
	})
	return id, nil
}

// Remove deletes the entry with tempID. Unknown ids are ignored.
// It reports whether an entry was removed.
func (l *Ledger) Remove(tempID string) bool {
	for i, entry := range l.entries {
		if entry.TempID == tempID {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.entries = nil
}

// List returns a snapshot of the entries in insertion order
func (l *Ledger) List() []Relation {
	out := make([]Relation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Get returns the entry with tempID
func (l *Ledger) Get(tempID string) (Relation, bool) {
	for _, entry := range l.entries {
		if entry.TempID == tempID {
			return entry, true
		}
	}
	return Relation{}, false
}
