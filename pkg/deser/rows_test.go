package deser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/bdaterr"
)

func TestNormalizeRow(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		policy  ExtraFieldPolicy
		want    []string
		wantErr error
	}{
		{name: "exact", fields: []string{"1", "a", "b"}, want: []string{"1", "a", "b"}},
		{name: "empty fields count", fields: []string{"", "", ""}, want: []string{"", "", ""}},
		{name: "short", fields: []string{"1", "a"}, wantErr: &bdaterr.IncompleteRowError{Row: 4}},
		{name: "none", fields: nil, wantErr: &bdaterr.IncompleteRowError{Row: 4}},
		{
			name:    "extra rejected",
			fields:  []string{"1", "a", "b", "c"},
			wantErr: &bdaterr.ExtraFieldsError{Row: 4, Got: 4, Expected: 3},
		},
		{
			name:   "extra truncated",
			fields: []string{"1", "a", "b", "c"},
			policy: ExtraFieldsTruncate,
			want:   []string{"1", "a", "b"},
		},
		{
			name:    "truncate still rejects short rows",
			fields:  []string{"1"},
			policy:  ExtraFieldsTruncate,
			wantErr: &bdaterr.IncompleteRowError{Row: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := NormalizeRow(4, tt.fields, 3, tt.policy)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 4, row.Index)
			require.Equal(t, tt.want, row.Fields)
		})
	}
}

func TestNormalizeRow_ZeroBasedIndex(t *testing.T) {
	_, err := NormalizeRow(0, nil, 1, ExtraFieldsReject)
	var rowErr *bdaterr.IncompleteRowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 0, rowErr.Row)
	require.EqualError(t, err, "Row 0 does not have entries for all columns")
}

func TestParseExtraFieldPolicy(t *testing.T) {
	for in, want := range map[string]ExtraFieldPolicy{
		"":          ExtraFieldsReject,
		"reject":    ExtraFieldsReject,
		" Truncate": ExtraFieldsTruncate,
	} {
		got, err := ParseExtraFieldPolicy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.NotEmpty(t, got.String())
	}

	_, err := ParseExtraFieldPolicy("pad")
	require.Error(t, err)
}
