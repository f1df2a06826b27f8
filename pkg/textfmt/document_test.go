package textfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/bdat"
)

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
name: ITM_Weapon
base_id: 10
columns:
  - {name: Id, type: i32}
  - {name: Name}
rows:
  - [1, Alice]
  - ["002", ~]
  - [1.50, "null"]
`))
	require.NoError(t, err)
	require.Equal(t, bdat.Opt("ITM_Weapon"), doc.Label())
	require.Equal(t, 10, doc.FirstID())
	require.Equal(t, []ColumnDef{{Name: "Id", Type: bdat.SignedInt}, {Name: "Name"}}, doc.Columns)
	require.Equal(t, []Fields{{"1", "Alice"}, {"002", ""}, {"1.50", "null"}}, doc.Rows)
}

func TestDecodeJSON(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"rows": [["1", 2, true]]}`))
	require.NoError(t, err)
	require.False(t, doc.Label().IsSome())
	require.Equal(t, bdat.DefaultBaseID, doc.FirstID())
	require.Equal(t, []Fields{{"1", "2", "true"}}, doc.Rows)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "row not a list", input: "rows:\n  - a: 1\n"},
		{name: "nested field", input: "rows:\n  - [[1, 2]]\n"},
		{name: "unknown key", input: "rowz: []\n"},
		{name: "bad type", input: "columns:\n  - {name: A, type: Int64}\nrows: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	tbl := &bdat.Table{
		Name:    bdat.Opt("T"),
		BaseID:  0,
		Columns: []bdat.Column{{Label: "Id", Type: bdat.SignedInt}, {Label: "Name", Type: bdat.String}},
		Rows: []bdat.Row{
			{ID: 0, Values: []bdat.Value{bdat.IntValue(bdat.SignedInt, 7), bdat.StringValue(bdat.String, "")}},
			{ID: 1, Values: []bdat.Value{bdat.IntValue(bdat.SignedInt, -1), bdat.StringValue(bdat.String, "123")}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tbl))

	doc, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, bdat.Opt("T"), doc.Label())
	require.Equal(t, 0, doc.FirstID())
	require.Equal(t, []ColumnDef{{Name: "Id", Type: bdat.SignedInt}, {Name: "Name", Type: bdat.String}}, doc.Columns)
	require.Equal(t, []Fields{{"7", ""}, {"-1", "123"}}, doc.Rows)
}

func TestFromTableAnonymous(t *testing.T) {
	doc := FromTable(&bdat.Table{Name: bdat.NoLabel(), BaseID: bdat.DefaultBaseID})
	require.Nil(t, doc.Name)
	require.Nil(t, doc.BaseID)
	require.Empty(t, doc.Rows)
}
