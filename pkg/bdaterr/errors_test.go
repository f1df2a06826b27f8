package bdaterr

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/bdat"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing argument",
			err:  &MissingArgumentError{Name: "--out"},
			want: "Missing required argument: --out",
		},
		{
			name: "unknown file type",
			err:  &UnknownFileTypeError{Type: ".csv"},
			want: "Unsupported file type '.csv'",
		},
		{
			name: "missing schema",
			err:  ErrMissingSchema,
			want: "No schema files found, please run 'extract' without '--no-schema'",
		},
		{
			name: "outdated schema",
			err:  &OutdatedSchemaError{Table: "ITM_Weapon", Found: 2, Expected: 3},
			want: "Outdated schema for file 'ITM_Weapon', found version 2, expected version 3, " +
				"please run 'extract' again without '--no-schema'",
		},
		{
			name: "missing type info anonymous",
			err:  &MissingTypeInfoError{Table: bdat.NoLabel()},
			want: "Table <Unnamed> is missing type information, please run 'extract' without '-u', or add types manually",
		},
		{
			name: "incomplete row",
			err:  &IncompleteRowError{Row: 0},
			want: "Row 0 does not have entries for all columns",
		},
		{
			name: "max duplicate columns",
			err:  &MaxDuplicateColumnsError{Table: bdat.Opt("T"), Column: bdat.Opt("Id")},
			want: "Column Id in table T exceeds the maximum duplicate column count of 4. " +
				"Please avoid using multiple columns with the same name.",
		},
		{
			name: "duplicate mismatch",
			err: &DuplicateMismatchError{
				Table: bdat.Opt("T"), Column: bdat.Opt("Id"), TypeA: bdat.SignedInt, TypeB: bdat.String,
			},
			want: "Columns Id in table T differ in type (SignedInt / String). " +
				"Please avoid using multiple columns with the same name.",
		},
		{
			name: "extra fields",
			err:  &ExtraFieldsError{Row: 2, Got: 4, Expected: 3},
			want: "Row 2 has 4 entries, expected 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("load schema: %w", ErrMissingSchema)
	require.ErrorIs(t, wrapped, ErrMissingSchema)
	require.NotErrorIs(t, wrapped, ErrNotLegacy)

	_, parseErr := strconv.Atoi("x")
	coerce := fmt.Errorf("deserialize: %w", &CoercionError{
		Table: bdat.Opt("T"), Row: 1, Column: "Id", Type: bdat.SignedInt, Raw: "x", Err: parseErr,
	})

	var cErr *CoercionError
	require.True(t, errors.As(coerce, &cErr))
	require.Equal(t, 1, cErr.Row)
	require.ErrorIs(t, coerce, strconv.ErrSyntax)

	var rowErr *IncompleteRowError
	require.False(t, errors.As(coerce, &rowErr))
}

func TestHeaderMismatchMessages(t *testing.T) {
	require.EqualError(t,
		&HeaderMismatchError{Table: bdat.Opt("T"), Index: 1, Got: bdat.Opt("Nam"), Wanted: bdat.Opt("Name")},
		"Column 1 in table T is named Nam but the schema expects Name, please run 'extract' again")
	require.EqualError(t,
		&HeaderMismatchError{Table: bdat.Opt("T"), Index: 2, Wanted: bdat.Opt("Name")},
		"Column 2 in table T is missing, the schema expects Name, please run 'extract' again")
	require.EqualError(t,
		&HeaderMismatchError{Table: bdat.Opt("T"), Index: 3, Got: bdat.Opt("Extra")},
		"Column 3 (Extra) in table T is not in the schema, please run 'extract' again")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{err: nil, want: KindNone},
		{err: errors.New("boom"), want: KindOther},
		{err: fmt.Errorf("x: %w", ErrMissingSchema), want: KindMissingSchema},
		{err: ErrNotLegacy, want: KindNotLegacy},
		{err: ErrNotModern, want: KindNotModern},
		{err: &MissingArgumentError{}, want: KindMissingRequiredArgument},
		{err: &UnknownFileTypeError{}, want: KindUnknownFileType},
		{err: &OutdatedSchemaError{}, want: KindOutdatedSchema},
		{err: &MissingTypeInfoError{}, want: KindMissingTypeInfo},
		{err: fmt.Errorf("t.yaml: %w", &IncompleteRowError{}), want: KindIncompleteRow},
		{err: &ExtraFieldsError{}, want: KindExtraFields},
		{err: &MaxDuplicateColumnsError{}, want: KindMaxDuplicateColumns},
		{err: &DuplicateMismatchError{}, want: KindDuplicateMismatch},
		{err: &HeaderMismatchError{}, want: KindHeaderMismatch},
		{err: &CoercionError{Err: strconv.ErrSyntax}, want: KindCoercion},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
