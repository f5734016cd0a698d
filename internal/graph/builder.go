// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"fmt"

	"github.com/tejzpr/xref-mcp/internal/draft"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// IdentityMode decides how draft endpoints collapse into nodes
type IdentityMode int

const (
	// IdentityProvision keys nodes by (document, provision); a provision used as
	// both source and target is one node carrying both roles.
	IdentityProvision IdentityMode = iota
	// IdentityRole keys nodes by (role, provision), as the legacy editor did.
	IdentityRole
)

func (m IdentityMode) String() string {
	switch m {
	case IdentityProvision:
		return "provision"
	case IdentityRole:
		return "role"
	default:
		return fmt.Sprintf("IdentityMode(%d)", int(m))
	}
}

// ParseIdentityMode parses "provision" or "role"
func ParseIdentityMode(s string) (IdentityMode, error) {
	switch s {
	case "", "provision":
		return IdentityProvision, nil
	case "role":
		return IdentityRole, nil
	default:
		return IdentityProvision, fmt.Errorf("invalid graph identity mode %q", s)
	}
}

// Builder derives a graph from a ledger snapshot
type Builder struct {
	mode IdentityMode
}

// NewBuilder creates a builder using mode for node identity
func NewBuilder(mode IdentityMode) *Builder {
	return &Builder{mode: mode}
}

// Mode returns the identity mode
func (b *Builder) Mode() IdentityMode {
	return b.mode
}

// Build computes the full graph for relations. It has no state of its own, so
// the same snapshot always yields the same nodes and edges in the same order.
func (b *Builder) Build(relations []draft.Relation) *Graph {
	acc := newAccumulator()

	for _, rel := range relations {
		if rel.FromProvision == nil || rel.ToProvision == nil {
			continue
		}

		from := acc.node(b.nodeID(RoleSource, rel.FromDocument, rel.FromProvision), RoleSource, rel.FromDocument, rel.FromProvision)
		to := acc.node(b.nodeID(RoleTarget, rel.ToDocument, rel.ToProvision), RoleTarget, rel.ToDocument, rel.ToProvision)

		acc.graph.Edges = append(acc.graph.Edges, Edge{
			ID:     rel.TempID,
			Source: from.ID,
			Target: to.ID,
			Kind:   rel.Kind,
			Label:  rel.Kind.String(),
			Note:   rel.Note,
			Color:  ColorFor(from.Kind),
		})
	}

	return acc.graph
}

func (b *Builder) nodeID(role Role, doc *legal.Document, prov *legal.Provision) string {
	if b.mode == IdentityRole {
		if role == RoleSource {
			return "source-" + prov.ID
		}
		return "target-" + prov.ID
	}

	documentID := prov.DocumentID
	if doc != nil {
		documentID = doc.ID
	}
	return provisionNodeID(documentID, prov.ID)
}

// accumulator collects nodes in first-appearance order
type accumulator struct {
	graph *Graph
	index map[string]int
	rows  map[Role]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		graph: &Graph{Nodes: []Node{}, Edges: []Edge{}},
		index: make(map[string]int),
		rows:  make(map[Role]int),
	}
}

// node returns the existing node for id, adding role to it, or creates one
func (a *accumulator) node(id string, role Role, doc *legal.Document, prov *legal.Provision) Node {
	if i, ok := a.index[id]; ok {
		a.graph.Nodes[i].Roles |= role
		return a.graph.Nodes[i]
	}

	n := Node{
		ID:             id,
		ProvisionID:    prov.ID,
		DocumentID:     prov.DocumentID,
		ProvisionLabel: prov.Label(),
		Anchor:         prov.Anchor,
		Kind:           legal.ClassifyProvision(doc, prov),
		Roles:          role,
	}
	if doc != nil {
		n.DocumentID = doc.ID
		n.DocumentTitle = doc.Title
	}
	n.Label = nodeLabel(n.DocumentTitle, n.ProvisionLabel)
	n.Group = n.Kind.String()

	column := 0.0
	if role == RoleTarget {
		column = 1
	}
	n.X = column * ColumnWidth
	n.Y = float64(a.rows[role]) * RowHeight
	a.rows[role]++

	a.graph.Nodes = append(a.graph.Nodes, n)
	a.index[id] = len(a.graph.Nodes) - 1
	return n
}
