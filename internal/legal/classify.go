// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legal

import "strings"

// anchorRule maps citation prefixes (or substrings) to a SourceKind
type anchorRule struct {
	kind       SourceKind
	prefixes   []string
	substrings []string
}

// anchorRules are evaluated in order; the first match wins so overlapping
// prefixes always resolve the same way.
var anchorRules = []anchorRule{
	{kind: SourcePreparatoryWork, prefixes: []string{"PROP-", "OTPRP-", "NOU-", "INNST-"}},
	{kind: SourceCaselaw, prefixes: []string{"HR-", "RT-"}, substrings: []string{"HØYESTERETT"}},
	{kind: SourceRegulation, prefixes: []string{"FOR-"}},
	{kind: SourceStatute, prefixes: []string{"LOV-"}},
	{kind: SourceCircular, prefixes: []string{"RUN-", "RUND-", "RS-"}},
}

// Classify resolves a document or provision to a SourceKind.
// An explicitKind naming a SourceKind wins outright. Otherwise the anchor is
// upper-cased and matched against the citation rules. Missing information
// yields SourceUnknown, never an error.
func Classify(anchor, explicitKind string) SourceKind {
	if kind, ok := ParseSourceKind(explicitKind); ok {
		return kind
	}
	return classifyAnchor(anchor)
}

func classifyAnchor(anchor string) SourceKind {
	upper := strings.ToUpper(strings.TrimSpace(anchor))
	if upper == "" {
		return SourceUnknown
	}

	for _, rule := range anchorRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(upper, prefix) {
				return rule.kind
			}
		}
		for _, sub := range rule.substrings {
			if strings.Contains(upper, sub) {
				return rule.kind
			}
		}
	}

	return SourceUnknown
}

// ClassifyProvision classifies a provision in the context of its document.
// The document's explicit kind wins; the provision anchor is the fallback,
// then the document number.
func ClassifyProvision(doc *Document, prov *Provision) SourceKind {
	var explicit, anchor string
	if doc != nil {
		explicit = doc.SourceKind
		anchor = doc.DocumentNumber
	}
	if prov != nil && prov.Anchor != "" {
		anchor = prov.Anchor
	}
	return Classify(anchor, explicit)
}
