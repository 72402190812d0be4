package vcs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRevisionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "sha1", id: strings.Repeat("a1", 20), want: strings.Repeat("a1", 20)},
		{name: "sha256", id: strings.Repeat("0f", 32), want: strings.Repeat("0f", 32)},
		{name: "uppercase canonicalized", id: strings.Repeat("AB", 20), want: strings.Repeat("ab", 20)},
		{name: "empty", id: "", wantErr: true},
		{name: "short", id: "abc123", wantErr: true},
		{name: "non hex", id: strings.Repeat("zz", 20), wantErr: true},
		{name: "ref name", id: "refs/heads/main", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRevisionID(tt.id)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRevision)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
