// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/xref-mcp/internal/draft"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

var (
	statute = &legal.Document{ID: "lov-56", Title: "Regnskapsloven", SourceKind: "statute", DocumentNumber: "LOV-1998-07-17-56"}
	reg     = &legal.Document{ID: "for-1319", Title: "Regnskapsforskriften", DocumentNumber: "FOR-1999-12-11-1319"}
	circ    = &legal.Document{ID: "rs-1", Title: "Rundskriv", DocumentNumber: "RS-2016-1"}

	lov31 = &legal.Provision{ID: "lov-56-3-1", DocumentID: "lov-56", ProvisionNumber: "3-1", Anchor: "LOV-1998-07-17-56.§3-1"}
	for11 = &legal.Provision{ID: "for-1319-1-1", DocumentID: "for-1319", ProvisionNumber: "1-1", Anchor: "FOR-1999-12-11-1319.§1-1"}
	rs1   = &legal.Provision{ID: "rs-1-1", DocumentID: "rs-1", ProvisionNumber: "1"}
)

func relation(id string, fromDoc *legal.Document, from *legal.Provision, toDoc *legal.Document, to *legal.Provision, kind legal.RelationKind) draft.Relation {
	return draft.Relation{
		TempID:        id,
		FromDocument:  fromDoc,
		FromProvision: from,
		ToDocument:    toDoc,
		ToProvision:   to,
		Kind:          kind,
	}
}

func edgeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

func nodeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestBuild_Empty(t *testing.T) {
	g := NewBuilder(IdentityProvision).Build(nil)
	require.NotNil(t, g)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
}

func TestBuild_SingleRelation(t *testing.T) {
	g := NewBuilder(IdentityProvision).Build([]draft.Relation{
		relation("t1", statute, lov31, reg, for11, legal.RelationEnabledBy),
	})

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	from, ok := g.NodeByID("lov-56/lov-56-3-1")
	require.True(t, ok)
	assert.Equal(t, legal.SourceStatute, from.Kind)
	assert.Equal(t, "Regnskapsloven § 3-1", from.Label)
	assert.Equal(t, "statute", from.Group)
	assert.True(t, from.Roles.Has(RoleSource))
	assert.False(t, from.Roles.Has(RoleTarget))

	to, ok := g.NodeByID("for-1319/for-1319-1-1")
	require.True(t, ok)
	assert.Equal(t, legal.SourceRegulation, to.Kind)

	edge := g.Edges[0]
	assert.Equal(t, "t1", edge.ID)
	assert.Equal(t, from.ID, edge.Source)
	assert.Equal(t, to.ID, edge.Target)
	assert.Equal(t, "enabled_by", edge.Label)
	assert.Equal(t, ColorFor(legal.SourceStatute), edge.Color)
}

func TestBuild_ProvisionIdentityMergesRoles(t *testing.T) {
	g := NewBuilder(IdentityProvision).Build([]draft.Relation{
		relation("t1", circ, rs1, statute, lov31, legal.RelationClarifies),
		relation("t2", statute, lov31, reg, for11, legal.RelationEnabledBy),
	})

	assert.Equal(t, []string{"rs-1/rs-1-1", "lov-56/lov-56-3-1", "for-1319/for-1319-1-1"}, nodeIDs(g))

	middle, ok := g.NodeByID("lov-56/lov-56-3-1")
	require.True(t, ok)
	assert.True(t, middle.Roles.Has(RoleSource))
	assert.True(t, middle.Roles.Has(RoleTarget))

	// edge color follows the source node of each edge
	assert.Equal(t, ColorFor(legal.SourceCircular), g.Edges[0].Color)
	assert.Equal(t, ColorFor(legal.SourceStatute), g.Edges[1].Color)
}

func TestBuild_RoleIdentitySplitsNodes(t *testing.T) {
	g := NewBuilder(IdentityRole).Build([]draft.Relation{
		relation("t1", circ, rs1, statute, lov31, legal.RelationClarifies),
		relation("t2", statute, lov31, reg, for11, legal.RelationEnabledBy),
	})

	assert.Equal(t, []string{"source-rs-1-1", "target-lov-56-3-1", "source-lov-56-3-1", "target-for-1319-1-1"}, nodeIDs(g))
	assert.Equal(t, "target-lov-56-3-1", g.Edges[0].Target)
	assert.Equal(t, "source-lov-56-3-1", g.Edges[1].Source)
}

func TestBuild_DuplicateRelationsShareNodes(t *testing.T) {
	g := NewBuilder(IdentityProvision).Build([]draft.Relation{
		relation("t1", statute, lov31, reg, for11, legal.RelationCites),
		relation("t2", statute, lov31, reg, for11, legal.RelationCites),
	})

	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, []string{"t1", "t2"}, edgeIDs(g))
}

func TestBuild_Idempotent(t *testing.T) {
	snapshot := []draft.Relation{
		relation("t1", circ, rs1, statute, lov31, legal.RelationClarifies),
		relation("t2", statute, lov31, reg, for11, legal.RelationEnabledBy),
		relation("t3", reg, for11, circ, rs1, legal.RelationMentions),
	}

	b := NewBuilder(IdentityProvision)
	first := b.Build(snapshot)
	second := b.Build(snapshot)
	assert.Equal(t, first, second)
}

func TestBuild_Layout(t *testing.T) {
	g := NewBuilder(IdentityRole).Build([]draft.Relation{
		relation("t1", statute, lov31, reg, for11, legal.RelationCites),
		relation("t2", circ, rs1, statute, lov31, legal.RelationCites),
	})

	src1, _ := g.NodeByID("source-lov-56-3-1")
	tgt1, _ := g.NodeByID("target-for-1319-1-1")
	src2, _ := g.NodeByID("source-rs-1-1")

	assert.Equal(t, 0.0, src1.X)
	assert.Equal(t, ColumnWidth, tgt1.X)
	assert.Equal(t, 0.0, src1.Y)
	assert.Equal(t, RowHeight, src2.Y)
}

func TestBuild_SkipsEntriesWithoutProvisions(t *testing.T) {
	g := NewBuilder(IdentityProvision).Build([]draft.Relation{
		{TempID: "broken", Kind: legal.RelationCites},
		relation("t1", statute, lov31, reg, for11, legal.RelationCites),
	})
	assert.Equal(t, []string{"t1"}, edgeIDs(g))
}

func TestParseIdentityMode(t *testing.T) {
	mode, err := ParseIdentityMode("role")
	require.NoError(t, err)
	assert.Equal(t, IdentityRole, mode)

	mode, err = ParseIdentityMode("")
	require.NoError(t, err)
	assert.Equal(t, IdentityProvision, mode)

	_, err = ParseIdentityMode("document")
	assert.Error(t, err)
}

func TestRole_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RoleSource | RoleTarget)
	require.NoError(t, err)
	assert.JSONEq(t, `["source","target"]`, string(data))

	data, err = json.Marshal(Role(0))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
