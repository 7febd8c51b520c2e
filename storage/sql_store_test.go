package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshAMPT001/kind-ui/models"
)

func TestBuildInsert(t *testing.T) {
	cols := []string{"a", "b"}

	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1,$2),($3,$4)", buildInsert(postgresDialect, "t", cols, 2))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES (?,?),(?,?),(?,?)", buildInsert(sqliteDialect, "t", cols, 3))
}

func TestSnapshotRowsMatchColumns(t *testing.T) {
	fams, variants, offers := snapshotRows(testSnapshot().Families)

	require.Len(t, fams, 1)
	require.Len(t, variants, 2)
	require.Len(t, offers, 4)
	for _, r := range fams {
		assert.Len(t, r, len(familyColumns))
	}
	for _, r := range variants {
		assert.Len(t, r, len(variantColumns))
	}
	for i, r := range offers {
		assert.Len(t, r, len(offerColumns))
		assert.Equal(t, i, r[2], "offer positions are sequential")
	}
	assert.Nil(t, variants[1][8], "absent price is stored as NULL")
}

func newTestSQLite(t *testing.T) *SQLiteWriter {
	t.Helper()
	w, err := NewSQLiteWriter(context.Background(), filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestSQLiteWriterRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := newTestSQLite(t)
	snap := testSnapshot()

	require.NoError(t, w.Write(ctx, snap))

	families, err := w.FetchFamilies(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Families, families)
}

func TestSQLiteWriterReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	w := newTestSQLite(t)

	require.NoError(t, w.Write(ctx, testSnapshot()))

	next := testSnapshot()
	next.Families[0].Variants = next.Families[0].Variants[:1]
	next.Families[0].Variants[0].SellerMarket = next.Families[0].Variants[0].SellerMarket[:1]
	require.NoError(t, w.Write(ctx, next))

	families, err := w.FetchFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Len(t, families[0].Variants, 1)
	assert.Len(t, families[0].Variants[0].SellerMarket, 1)
}

func TestSQLiteWriterLargeSnapshot(t *testing.T) {
	ctx := context.Background()
	w := newTestSQLite(t)

	snap := &models.Snapshot{}
	for i := 0; i < 120; i++ {
		snap.Families = append(snap.Families, &models.ProductFamily{
			Key:      models.FamilyKey("https://x/products/p/" + strings.Repeat("a", i+1)),
			Variants: []*models.Variant{},
		})
	}
	require.NoError(t, w.Write(ctx, snap))

	families, err := w.FetchFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, families, 120)
	assert.Equal(t, snap.Families[119].Key, families[119].Key, "snapshot order survives batching")
}

func TestSQLiteWriterEmptyDimensionsMatchJSON(t *testing.T) {
	ctx := context.Background()
	w := newTestSQLite(t)

	snap := testSnapshot()
	snap.Families[0].Variants[1].VariantDimensions = map[string]string{}
	require.NoError(t, w.Write(ctx, snap))

	families, err := w.FetchFamilies(ctx)
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Len(t, families[0].Variants, 2)
	dims := families[0].Variants[1].VariantDimensions
	assert.NotNil(t, dims)
	assert.Empty(t, dims)

	fromDB, err := json.Marshal(families[0].Variants[1])
	require.NoError(t, err)
	fromFile, err := json.Marshal(snap.Families[0].Variants[1])
	require.NoError(t, err)
	assert.JSONEq(t, string(fromFile), string(fromDB))
	assert.Contains(t, string(fromDB), `"variant_dimensions":{}`)
}

func TestSQLiteWriterEmpty(t *testing.T) {
	w := newTestSQLite(t)
	families, err := w.FetchFamilies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, families)
}
