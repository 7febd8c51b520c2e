package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshAMPT001/kind-ui/config"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/storage"
)

const page = "https://www.kindsnacks.com/products/kind-bars/dark-chocolate-nuts"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func writeCategory(t *testing.T, dir, category, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, category), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, category, storage.ResultsFile), []byte(body), 0644))
}

func testInputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeCategory(t, dir, "Bars", `[
		{"asin": "B100", "source_product_url": "`+page+`", "price": "$10.00", "sold_by": "Amazon.com",
		 "flavor": "Dark Chocolate",
		 "other_sellers": [{"sold_by": "Resell Co", "price": "$16.00", "seller_rating": "4.5 out of 5 stars"}]},
		{"asin": "B200", "source_product_url": "`+page+`", "price": "$10.00", "sold_by": "Amazon.com"}
	]`)
	writeCategory(t, dir, "All_Snacks", `[
		{"asin": "B100", "source_product_url": "`+page+`", "price": "$1.00"},
		{"asin": "C300", "source_product_url": "https://www.kindsnacks.com/products/kind-thins/caramel", "price": "$5.00"}
	]`)
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "kindmarket dev\n", out)
}

func TestMergeNormalizeSummary(t *testing.T) {
	in := testInputDir(t)
	work := t.TempDir()
	merged := filepath.Join(work, "merged.json")
	families := filepath.Join(work, "families.json")
	summary := filepath.Join(work, "summary.json")

	_, err := execute(t, "merge", "--input", in, "--out", merged)
	require.NoError(t, err)

	data, err := os.ReadFile(merged)
	require.NoError(t, err)
	var records []*models.RawListing
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "B100", records[0].ASIN)
	assert.Equal(t, "Bars", records[0].Category, "specific category wins over the catch-all")
	assert.Equal(t, "$10.00", records[0].Price)
	assert.Equal(t, "All_Snacks", records[2].Category)

	_, err = execute(t, "normalize", "--input", merged, "--out", families)
	require.NoError(t, err)

	fams, err := storage.ReadFamilies(families)
	require.NoError(t, err)
	require.Len(t, fams, 2)
	assert.Equal(t, "Kind Bars", fams[0].ProductName)
	require.Len(t, fams[0].Variants, 2)
	assert.Equal(t, "Dark Chocolate", fams[0].Variants[0].VariantName)

	out, err := execute(t, "summary", "--input", families, "--out", summary)
	require.NoError(t, err)
	assert.Contains(t, out, "MARKETPLACE SELLER INSIGHTS")
	assert.Contains(t, out, "Resell Co")

	data, err = os.ReadFile(summary)
	require.NoError(t, err)
	var report models.InsightReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 3, report.TotalSKUs)
	assert.Equal(t, []string{"Resell Co"}, report.ThirdPartySellers)
}

func TestRunCommand(t *testing.T) {
	in := testInputDir(t)
	outDir := t.TempDir()
	db := filepath.Join(outDir, "snapshot.db")
	metricsFile := filepath.Join(outDir, "pipeline.prom")

	out, err := execute(t, "run",
		"--input", in,
		"--out-dir", outDir,
		"--csv", filepath.Join(outDir, "offers.csv"),
		"--sqlite", db,
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 1 Most Gouged Offers")

	for _, name := range []string{storage.FamiliesFile, storage.SummaryFile, storage.RunFile, "offers.csv"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "records_loaded")

	// the stored snapshot feeds the summary command
	t.Setenv("KINDMARKET_SQLITE_PATH", db)
	out, err = execute(t, "summary", "--from-db", "--out", filepath.Join(outDir, "from_db.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Resell Co")
}

func TestRunRequiresInput(t *testing.T) {
	_, err := execute(t, "run", "--input", t.TempDir(), "--out-dir", t.TempDir(), "--csv", "")
	assert.Error(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := execute(t, "run", "--top-n=0")
	assert.ErrorContains(t, err, "top_n")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Analysis.PriceSlightlyHighMax = 25
	cfg.Analysis.TopN = 3

	norm := normalizerOptions(cfg)
	assert.Equal(t, "Amazon.com", norm.OperatorName)
	assert.Equal(t, models.PriceSlightlyHigh, *norm.Classifier.PriceFlag(ptr(25.0)))

	ins := insightOptions(cfg)
	assert.Equal(t, 3, ins.TopN)
	assert.Equal(t, []string{"Amazon.com", "Kind", "Kind Snacks"}, ins.ExcludedSellers)
}

func ptr(v float64) *float64 { return &v }
