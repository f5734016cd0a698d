// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejzpr/xref-mcp/internal/database"
	"github.com/tejzpr/xref-mcp/internal/legal"
	"gorm.io/gorm"
)

// MaxHops caps explorer depth
const MaxHops = 5

// Neighborhood walks saved cross references breadth-first from a provision,
// following both outgoing and incoming references up to maxHops.
// Targets that cannot be resolved to a stored provision become leaf nodes.
func (m *Manager) Neighborhood(ctx context.Context, provisionID string, maxHops int) (*Graph, error) {
	if maxHops <= 0 {
		maxHops = 1
	}
	if maxHops > MaxHops {
		maxHops = MaxHops
	}

	var start database.LegalProvision
	err := m.db.WithContext(ctx).Preload("Document").Where("external_id = ?", provisionID).First(&start).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", database.ErrProvisionNotFound, provisionID)
		}
		return nil, fmt.Errorf("failed to get provision: %w", err)
	}

	type queueItem struct {
		prov  *database.LegalProvision
		depth int
	}

	acc := newAccumulator()
	visited := map[uint]bool{start.ID: true}
	seenEdges := make(map[uint]bool)
	queue := []queueItem{{&start, 0}}

	acc.node(storedNodeID(&start), RoleSource, start.Document.ToLegal(), start.ToLegal(start.Document.ExternalID))

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxHops {
			continue
		}

		outgoing, err := m.GetOutgoingReferences(ctx, current.prov.ID)
		if err != nil {
			return nil, err
		}
		for i := range outgoing {
			ref := &outgoing[i]
			if seenEdges[ref.ID] {
				continue
			}
			seenEdges[ref.ID] = true

			from := acc.node(storedNodeID(current.prov), RoleSource, current.prov.Document.ToLegal(), current.prov.ToLegal(current.prov.Document.ExternalID))

			target, err := m.resolveTarget(ctx, ref)
			var to Node
			switch {
			case err == nil:
				to = acc.node(storedNodeID(target), RoleTarget, target.Document.ToLegal(), target.ToLegal(target.Document.ExternalID))
				if !visited[target.ID] {
					visited[target.ID] = true
					queue = append(queue, queueItem{target, current.depth + 1})
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				to = acc.node(citationNodeID(ref), RoleTarget, citationDocument(ref), citationProvision(ref))
			default:
				return nil, fmt.Errorf("failed to resolve reference %d: %w", ref.ID, err)
			}

			acc.graph.Edges = append(acc.graph.Edges, storedEdge(ref, from, to))
		}

		incoming, err := m.GetIncomingReferences(ctx, current.prov)
		if err != nil {
			return nil, err
		}
		for i := range incoming {
			ref := &incoming[i]
			if seenEdges[ref.ID] {
				continue
			}
			seenEdges[ref.ID] = true

			var source database.LegalProvision
			if err := m.db.WithContext(ctx).Preload("Document").First(&source, ref.FromProvisionID).Error; err != nil {
				return nil, fmt.Errorf("failed to get provision %d: %w", ref.FromProvisionID, err)
			}

			from := acc.node(storedNodeID(&source), RoleSource, source.Document.ToLegal(), source.ToLegal(source.Document.ExternalID))
			to := acc.node(storedNodeID(current.prov), RoleTarget, current.prov.Document.ToLegal(), current.prov.ToLegal(current.prov.Document.ExternalID))
			acc.graph.Edges = append(acc.graph.Edges, storedEdge(ref, from, to))

			if !visited[source.ID] {
				visited[source.ID] = true
				queue = append(queue, queueItem{&source, current.depth + 1})
			}
		}
	}

	return acc.graph, nil
}

func storedNodeID(prov *database.LegalProvision) string {
	return provisionNodeID(prov.Document.ExternalID, prov.ExternalID)
}

func citationNodeID(ref *database.CrossReference) string {
	return "citation:" + ref.ToDocumentNumber + "#" + ref.ToAnchor
}

func citationDocument(ref *database.CrossReference) *legal.Document {
	return &legal.Document{ID: ref.ToDocumentNumber, DocumentNumber: ref.ToDocumentNumber}
}

func citationProvision(ref *database.CrossReference) *legal.Provision {
	return &legal.Provision{ID: ref.ToAnchor, ProvisionNumber: ref.ToAnchor, DocumentID: ref.ToDocumentNumber}
}

func storedEdge(ref *database.CrossReference, from, to Node) Edge {
	kind, err := legal.ParseRelationKind(ref.RefType)
	if err != nil {
		kind = legal.DefaultRelation
	}
	var note string
	if ref.RefText != nil {
		note = *ref.RefText
	}
	return Edge{
		ID:     fmt.Sprintf("xref-%d", ref.ID),
		Source: from.ID,
		Target: to.ID,
		Kind:   kind,
		Label:  ref.RefType,
		Note:   note,
		Color:  ColorFor(from.Kind),
	}
}
