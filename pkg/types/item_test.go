// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemID(t *testing.T) {
	tests := []struct {
		id       string
		platform Platform
		seq      int
		wantErr  bool
	}{
		{"R1", PlatformForum, 1, false},
		{"X12", PlatformMicroblog, 12, false},
		{"r3", PlatformForum, 3, false},
		{"R0", "", 0, true},
		{"Q1", "", 0, true},
		{"R", "", 0, true},
		{"Rx", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, seq, err := ParseItemID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.platform, p)
			assert.Equal(t, tt.seq, seq)
		})
	}
}

func TestLessIDOrdersNumericallyWithinPlatform(t *testing.T) {
	ids := []string{"X2", "R10", "bogus", "R2", "X1", "R1"}
	sort.Slice(ids, func(i, j int) bool { return LessID(ids[i], ids[j]) })
	assert.Equal(t, []string{"R1", "R2", "R10", "X1", "X2", "bogus"}, ids)
}

func TestFormatItemIDRoundTrip(t *testing.T) {
	id := FormatItemID(PlatformMicroblog, 7)
	assert.Equal(t, "X7", id)

	p, seq, err := ParseItemID(id)
	require.NoError(t, err)
	assert.Equal(t, PlatformMicroblog, p)
	assert.Equal(t, 7, seq)
}
