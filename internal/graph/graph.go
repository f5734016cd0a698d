// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package graph

import (
	"encoding/json"
	"fmt"

	"github.com/tejzpr/xref-mcp/internal/legal"
)

// Role records which side(s) of a relation a node appears on
type Role uint8

const (
	RoleSource Role = 1 << iota
	RoleTarget
)

// Has reports whether r includes role
func (r Role) Has(role Role) bool {
	return r&role != 0
}

// MarshalJSON renders the role set as a list of names
func (r Role) MarshalJSON() ([]byte, error) {
	names := []string{}
	if r.Has(RoleSource) {
		names = append(names, "source")
	}
	if r.Has(RoleTarget) {
		names = append(names, "target")
	}
	return json.Marshal(names)
}

// Node is one provision in the graph view
type Node struct {
	ID             string           `json:"id"`
	DocumentID     string           `json:"document_id"`
	ProvisionID    string           `json:"provision_id"`
	DocumentTitle  string           `json:"document_title"`
	ProvisionLabel string           `json:"provision_label"`
	Anchor         string           `json:"anchor,omitempty"`
	Kind           legal.SourceKind `json:"kind"`
	Label          string           `json:"label"`
	Group          string           `json:"group"`
	Roles          Role             `json:"roles"`

	// Cosmetic layout defaults; renderers may ignore them
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is one relation between two nodes
type Edge struct {
	ID     string             `json:"id"`
	Source string             `json:"source"`
	Target string             `json:"target"`
	Kind   legal.RelationKind `json:"relation"`
	Label  string             `json:"label"`
	Note   string             `json:"note,omitempty"`
	Color  string             `json:"color"`
}

// Graph is the node/edge model handed to a renderer
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node with id
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Layout defaults
const (
	ColumnWidth = 320.0
	RowHeight   = 90.0
)

// Edge colors keyed by the kind of the edge's source node
var kindColors = map[legal.SourceKind]string{
	legal.SourceStatute:         "#1f77b4",
	legal.SourceRegulation:      "#2ca02c",
	legal.SourceCaselaw:         "#d62728",
	legal.SourceCircular:        "#ff7f0e",
	legal.SourcePreparatoryWork: "#9467bd",
	legal.SourceUnknown:         "#7f7f7f",
}

// ColorFor returns the display color for a SourceKind
func ColorFor(kind legal.SourceKind) string {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return kindColors[legal.SourceUnknown]
}

func nodeLabel(docTitle, provLabel string) string {
	switch {
	case docTitle == "":
		return provLabel
	case provLabel == "":
		return docTitle
	default:
		return fmt.Sprintf("%s § %s", docTitle, provLabel)
	}
}

// provisionNodeID keys a node by document and provision
func provisionNodeID(documentID, provisionID string) string {
	return documentID + "/" + provisionID
}
