// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		source      SourceKind
		destination SourceKind
		want        RelationKind
	}{
		{SourceRegulation, SourceStatute, RelationEnabledBy},
		{SourceCircular, SourceStatute, RelationClarifies},
		{SourceCaselaw, SourceStatute, RelationInterprets},
		{SourceCaselaw, SourceRegulation, RelationInterprets},
		{SourcePreparatoryWork, SourceStatute, RelationClarifies},
		{SourceStatute, SourceStatute, RelationCites},
		{SourceStatute, SourceRegulation, RelationCites},
		{SourceUnknown, SourceUnknown, RelationCites},
	}

	for _, tt := range tests {
		t.Run(tt.source.String()+"->"+tt.destination.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.source, tt.destination))
		})
	}
}

func TestSuggest_IsTotal(t *testing.T) {
	for _, src := range SourceKinds() {
		for _, dst := range SourceKinds() {
			assert.True(t, Suggest(src, dst).Valid(), "%s -> %s", src, dst)
		}
	}
}

func TestParseRelationKind(t *testing.T) {
	for _, kind := range RelationKinds() {
		parsed, err := ParseRelationKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseRelationKind("references")
	assert.Error(t, err)

	var zero RelationKind
	assert.False(t, zero.Valid())
	_, err = zero.MarshalText()
	assert.Error(t, err)
}
