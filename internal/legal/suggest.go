// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legal

type suggestionRule struct {
	source      SourceKind
	destination SourceKind
	relation    RelationKind
}

// First match wins
var suggestionRules = []suggestionRule{
	{SourceRegulation, SourceStatute, RelationEnabledBy},
	{SourceCircular, SourceStatute, RelationClarifies},
	{SourceCaselaw, SourceStatute, RelationInterprets},
	{SourceCaselaw, SourceRegulation, RelationInterprets},
	{SourcePreparatoryWork, SourceStatute, RelationClarifies},
}

// Suggest proposes a default relation for a (source, destination) pair.
// It is total: pairs without a rule fall back to DefaultRelation.
func Suggest(source, destination SourceKind) RelationKind {
	for _, rule := range suggestionRules {
		if rule.source == source && rule.destination == destination {
			return rule.relation
		}
	}
	return DefaultRelation
}
