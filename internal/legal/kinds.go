// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legal

import "fmt"

// SourceKind is the closed classification of where a legal document comes from
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceStatute
	SourceRegulation
	SourceCaselaw
	SourceCircular
	SourcePreparatoryWork
)

var sourceKindNames = map[SourceKind]string{
	SourceUnknown:         "unknown",
	SourceStatute:         "statute",
	SourceRegulation:      "regulation",
	SourceCaselaw:         "caselaw",
	SourceCircular:        "circular",
	SourcePreparatoryWork: "preparatory_work",
}

// Display labels used by the graph view
var sourceKindLabels = map[SourceKind]string{
	SourceUnknown:         "Ukjent",
	SourceStatute:         "Lov",
	SourceRegulation:      "Forskrift",
	SourceCaselaw:         "Rettspraksis",
	SourceCircular:        "Rundskriv",
	SourcePreparatoryWork: "Forarbeid",
}

// SourceKinds returns every SourceKind in declaration order
func SourceKinds() []SourceKind {
	return []SourceKind{
		SourceStatute,
		SourceRegulation,
		SourceCaselaw,
		SourceCircular,
		SourcePreparatoryWork,
		SourceUnknown,
	}
}

func (k SourceKind) String() string {
	if name, ok := sourceKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// Label returns the human display label for the kind
func (k SourceKind) Label() string {
	if label, ok := sourceKindLabels[k]; ok {
		return label
	}
	return sourceKindLabels[SourceUnknown]
}

// ParseSourceKind matches s case-sensitively against the SourceKind names
func ParseSourceKind(s string) (SourceKind, bool) {
	for kind, name := range sourceKindNames {
		if name == s {
			return kind, true
		}
	}
	return SourceUnknown, false
}

// MarshalText implements encoding.TextMarshaler
func (k SourceKind) MarshalText() ([]byte, error) {
	name, ok := sourceKindNames[k]
	if !ok {
		return nil, fmt.Errorf("invalid source kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *SourceKind) UnmarshalText(text []byte) error {
	kind, ok := ParseSourceKind(string(text))
	if !ok {
		return fmt.Errorf("invalid source kind %q", string(text))
	}
	*k = kind
	return nil
}

// RelationKind is the closed set of labels a cross reference can carry.
// The zero value is not a valid relation.
type RelationKind int

const (
	RelationClarifies RelationKind = iota + 1
	RelationEnabledBy
	RelationImplements
	RelationCites
	RelationInterprets
	RelationApplies
	RelationMentions
)

var relationKindNames = map[RelationKind]string{
	RelationClarifies:  "clarifies",
	RelationEnabledBy:  "enabled_by",
	RelationImplements: "implements",
	RelationCites:      "cites",
	RelationInterprets: "interprets",
	RelationApplies:    "applies",
	RelationMentions:   "mentions",
}

// DefaultRelation is used whenever no more specific relation applies
const DefaultRelation = RelationCites

// RelationKinds returns every valid RelationKind in declaration order
func RelationKinds() []RelationKind {
	return []RelationKind{
		RelationClarifies,
		RelationEnabledBy,
		RelationImplements,
		RelationCites,
		RelationInterprets,
		RelationApplies,
		RelationMentions,
	}
}

func (r RelationKind) String() string {
	if name, ok := relationKindNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RelationKind(%d)", int(r))
}

// Valid reports whether r is a member of the closed set
func (r RelationKind) Valid() bool {
	_, ok := relationKindNames[r]
	return ok
}

// ParseRelationKind matches s case-sensitively against the RelationKind names
func ParseRelationKind(s string) (RelationKind, error) {
	for kind, name := range relationKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("invalid relation kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (r RelationKind) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid relation kind %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *RelationKind) UnmarshalText(text []byte) error {
	kind, err := ParseRelationKind(string(text))
	if err != nil {
		return err
	}
	*r = kind
	return nil
}
