package schema

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
)

func intPtr(n int) *int { return &n }

func writeSchema(t *testing.T, dir, table, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, table+Extension), []byte(body), 0o644))
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "ITM_Weapon", `
table: ITM_Weapon
version: 3
columns:
  - {name: Id, type: SignedInt}
  - {name: Id, type: i32}
  - {name: Name, type: String}
`)

	store := NewStore(dir)
	sch, err := store.Load(bdat.Opt("ITM_Weapon"))
	require.NoError(t, err)
	require.Equal(t, bdat.Label("ITM_Weapon"), sch.Table)
	require.Equal(t, 3, sch.Version)
	require.Equal(t, []bdat.Column{
		{Label: "Id", Type: bdat.SignedInt},
		{Label: "Id", Type: bdat.SignedInt},
		{Label: "Name", Type: bdat.String},
	}, sch.Columns)

	again, err := store.Load(bdat.Opt("ITM_Weapon"))
	require.NoError(t, err)
	require.Same(t, sch, again, "second load should come from the cache")
}

func TestStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "Old", "table: Old\nversion: 2\ncolumns: []\n")
	writeSchema(t, dir, "Broken", "table: [\n")
	writeSchema(t, dir, "Untyped", "table: Untyped\nversion: 3\ncolumns:\n  - {name: Id}\n")
	writeSchema(t, dir, "BadType", "table: BadType\nversion: 3\ncolumns:\n  - {name: Id, type: Int64}\n")

	store := NewStore(dir)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load(bdat.Opt("Nope"))
		require.ErrorIs(t, err, bdaterr.ErrMissingSchema)
	})

	t.Run("anonymous table", func(t *testing.T) {
		_, err := store.Load(bdat.NoLabel())
		require.ErrorIs(t, err, bdaterr.ErrMissingSchema)
	})

	t.Run("outdated", func(t *testing.T) {
		_, err := store.Load(bdat.Opt("Old"))
		var outdated *bdaterr.OutdatedSchemaError
		require.True(t, errors.As(err, &outdated), "got %v", err)
		require.Equal(t, bdaterr.OutdatedSchemaError{Table: "Old", Found: 2, Expected: CurrentVersion}, *outdated)
	})

	t.Run("expected version override", func(t *testing.T) {
		sch, err := NewStore(dir, WithExpectedVersion(2)).Load(bdat.Opt("Old"))
		require.NoError(t, err)
		require.Empty(t, sch.Columns)
	})

	t.Run("file for another table", func(t *testing.T) {
		writeSchema(t, dir, "Copy", "table: Original\nversion: 3\ncolumns:\n  - {name: Id, type: u8}\n")
		_, err := store.Load(bdat.Opt("Copy"))
		require.EqualError(t, err, "schema "+filepath.Join(dir, "Copy.bschema")+" describes table Original, not Copy")
	})

	for _, name := range []string{"Broken", "Untyped", "BadType"} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(bdat.Opt(name))
			require.Error(t, err)
			require.NotErrorIs(t, err, bdaterr.ErrMissingSchema)
		})
	}
}

func TestStore_SaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schemas")
	store := NewStore(dir)

	in := &Schema{
		Table:   "dir/Weird",
		Version: 1,
		BaseID:  intPtr(5),
		Columns: []bdat.Column{{Label: "Rate", Type: bdat.Percent}, {Label: "Msg", Type: bdat.MessageID}},
	}
	require.NoError(t, store.Save(in))
	require.FileExists(t, filepath.Join(dir, "dir_Weird.bschema"))

	fresh := NewStore(dir)
	out, err := fresh.Load(bdat.Opt("dir/Weird"))
	require.NoError(t, err)
	require.Equal(t, CurrentVersion, out.Version, "save stamps the store version")
	require.Equal(t, in.Columns, out.Columns)
	require.Equal(t, intPtr(5), out.BaseID)
	require.Equal(t, 1, in.Version, "save must not modify its argument")

	err = store.Save(&Schema{})
	var missing *bdaterr.MissingArgumentError
	require.True(t, errors.As(err, &missing))
}

func TestStore_BaseID(t *testing.T) {
	tests := []struct {
		name string
		base *int
	}{
		{name: "zero", base: intPtr(0)},
		{name: "default", base: intPtr(1)},
		{name: "absent", base: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, NewStore(dir).Save(&Schema{
				Table:   "T",
				BaseID:  tt.base,
				Columns: []bdat.Column{{Label: "A", Type: bdat.UnsignedByte}},
			}))

			out, err := NewStore(dir).Load(bdat.Opt("T"))
			require.NoError(t, err)
			require.Equal(t, tt.base, out.BaseID)
		})
	}
}

func TestStore_FailedLoadIsNotCached(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.Load(bdat.Opt("Late"))
	require.ErrorIs(t, err, bdaterr.ErrMissingSchema)

	writeSchema(t, dir, "Late", "table: Late\nversion: 3\ncolumns:\n  - {name: A, type: u8}\n")
	sch, err := store.Load(bdat.Opt("Late"))
	require.NoError(t, err)
	require.Len(t, sch.Columns, 1)
}

func TestStore_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "T", "table: T\nversion: 3\ncolumns:\n  - {name: A, type: u8}\n")
	store := NewStore(dir)

	var wg sync.WaitGroup
	results := make([]*Schema, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sch, err := store.Load(bdat.Opt("T"))
			if err == nil {
				results[i] = sch
			}
		}()
	}
	wg.Wait()

	for _, sch := range results {
		require.Same(t, results[0], sch, "every worker must share the cached schema")
	}

	store.Forget()
	sch, err := store.Load(bdat.Opt("T"))
	require.NoError(t, err)
	require.NotSame(t, results[0], sch)
}

func TestFromTable(t *testing.T) {
	tbl := &bdat.Table{
		Name:    bdat.Opt("T"),
		BaseID:  1,
		Columns: []bdat.Column{{Label: "A", Type: bdat.Float}},
	}
	sch := FromTable(tbl)
	require.Equal(t, bdat.Label("T"), sch.Table)
	require.Equal(t, CurrentVersion, sch.Version)
	require.Equal(t, tbl.Columns, sch.Columns)
	require.Equal(t, intPtr(1), sch.BaseID)

	tbl.BaseID = 0
	require.Equal(t, intPtr(0), FromTable(tbl).BaseID)
}
