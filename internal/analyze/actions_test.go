package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"sih-scout/models"
	"sih-scout/pkg/aggregate"
	"sih-scout/pkg/dataset"
)

func runAnalyzeApp(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Commands:       []*cli.Command{Command()},
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
	return app.Run(append([]string{"sih-scout", "analyze"}, args...))
}

func writeTestDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teams.csv")
	records := []models.TeamRecord{
		{Team: "A", State: "Maharashtra", City: "Pune", ID: "1"},
		{Team: "B", State: "Maharashtra", City: "Mumbai", ID: "2"},
		{Team: "C", State: "Karnataka", City: "Bengaluru", ID: "3"},
		{Team: "D", State: "", City: "Nowhere", ID: "4"},
	}
	require.NoError(t, dataset.AppendCSV(path, records))
	return path
}

func readSummary(t *testing.T, resultsDir string) Summary {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(resultsDir, "summary.yaml"))
	require.NoError(t, err)

	var summary Summary
	require.NoError(t, yaml.Unmarshal(data, &summary))
	return summary
}

func TestAnalyzeActionWritesSummaryAndCharts(t *testing.T) {
	in := writeTestDataset(t)
	resultsDir := filepath.Join(t.TempDir(), "results")

	err := runAnalyzeApp(t, "--in", in, "--results-dir", resultsDir, "--top", "5", "--state", "Maharashtra", "--quiet")
	require.NoError(t, err)

	summary := readSummary(t, resultsDir)
	assert.Equal(t, 4, summary.TotalEntries)
	assert.Equal(t, 3, summary.UniqueStates) // Maharashtra, Karnataka, unknown
	assert.Equal(t, 4, summary.UniqueCities)
	require.NotEmpty(t, summary.TopStates)
	assert.Equal(t, aggregate.Count{Key: "Maharashtra", Count: 2}, summary.TopStates[0])

	// The empty-state record surfaces as "unknown" rather than
	// disappearing from the aggregates.
	var keys []string
	for _, c := range summary.TopStates {
		keys = append(keys, c.Key)
	}
	assert.Contains(t, keys, aggregate.UnknownKey)

	for _, artifact := range []string{
		"top_states.html",
		"city_distribution.html",
		"state_share.html",
		"state_city.html",
		"dashboard.html",
	} {
		info, err := os.Stat(filepath.Join(resultsDir, artifact))
		require.NoError(t, err, artifact)
		assert.NotZero(t, info.Size(), artifact)
	}
}

func TestAnalyzeActionIsIdempotent(t *testing.T) {
	in := writeTestDataset(t)
	resultsDir := filepath.Join(t.TempDir(), "results")

	require.NoError(t, runAnalyzeApp(t, "--in", in, "--results-dir", resultsDir, "--no-charts", "--quiet"))
	first := readSummary(t, resultsDir)

	require.NoError(t, runAnalyzeApp(t, "--in", in, "--results-dir", resultsDir, "--no-charts", "--quiet"))
	second := readSummary(t, resultsDir)

	assert.Equal(t, first, second)
}

func TestAnalyzeActionNoChartsSkipsArtifacts(t *testing.T) {
	in := writeTestDataset(t)
	resultsDir := filepath.Join(t.TempDir(), "results")

	require.NoError(t, runAnalyzeApp(t, "--in", in, "--results-dir", resultsDir, "--no-charts", "--quiet"))

	_, err := os.Stat(filepath.Join(resultsDir, "top_states.html"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(resultsDir, "summary.yaml"))
	assert.NoError(t, err)
}

func TestAnalyzeActionMissingDatasetIsError(t *testing.T) {
	err := runAnalyzeApp(t, "--in", filepath.Join(t.TempDir(), "absent.csv"), "--quiet")
	require.Error(t, err)
}

func TestAnalyzeActionBadHeaderIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,region,town,code\nA,MH,Pune,1\n"), 0644))

	err := runAnalyzeApp(t, "--in", path, "--quiet")
	require.ErrorIs(t, err, dataset.ErrBadHeader)
}
