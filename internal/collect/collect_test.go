package collect

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"sih-scout/models"
	"sih-scout/pkg/caching"
	"sih-scout/pkg/fetcher"
)

const resultPage = `
<table>
  <tr class="row1">
    <td class="column1">1</td>
    <td class="column3">Team Alpha</td>
    <td class="column9">Pune</td>
    <td class="column10">Maharashtra</td>
  </tr>
  <tr class="row2">
    <td class="column1">2</td>
    <td class="column3">Team Beta</td>
    <td class="column9">Bengaluru</td>
    <td class="column10">Karnataka</td>
  </tr>
</table>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(resultPage))
	})
	mux.HandleFunc("/bad", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(urls ...string) *models.Config {
	config := models.DefaultConfig()
	config.URLs = urls
	config.DelayMillis = 0
	return config
}

// runCollectApp drives CollectAction through the real command so the
// exit-code contract is observable as a returned cli.ExitCoder.
func runCollectApp(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Commands:       []*cli.Command{Command()},
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
	return app.Run(append([]string{"sih-scout", "collect"}, args...))
}

// writeTestConfig points every collector path at a temp directory and
// returns the config path plus the dataset path it configures.
func writeTestConfig(t *testing.T, urls ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	config := models.DefaultConfig()
	config.URLs = urls
	config.DelayMillis = 0
	config.OutputCSV = filepath.Join(dir, "teams.csv")
	config.OutputJSON = filepath.Join(dir, "teams.json")
	config.CacheDir = filepath.Join(dir, "cache")
	config.DatabasePath = filepath.Join(dir, "scout.db")

	data, err := yaml.Marshal(config)
	require.NoError(t, err)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, config.OutputCSV
}

func TestCollectActionSucceedsWithRecords(t *testing.T) {
	srv := testServer(t)

	configPath, csvPath := writeTestConfig(t, srv.URL+"/ok")
	err := runCollectApp(t, "--config", configPath, "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Team Alpha")
}

func TestCollectActionZeroRecordsIsErrorExit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Responds fine but nothing matches the row selector.
		_, _ = w.Write([]byte(`<table><tr class="heading"><td>Sr</td></tr></table>`))
	}))
	t.Cleanup(srv.Close)

	configPath, csvPath := writeTestConfig(t, srv.URL)
	err := runCollectApp(t, "--config", configPath, "--quiet")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())

	// Nothing was appended, so no dataset should appear either.
	_, statErr := os.Stat(csvPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCollectActionAllSourcesFailedIsErrorExit(t *testing.T) {
	srv := testServer(t)

	configPath, _ := writeTestConfig(t, srv.URL+"/bad")
	err := runCollectApp(t, "--config", configPath, "--quiet")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestCollectExtractsAllRows(t *testing.T) {
	srv := testServer(t)

	cache, err := caching.New(t.TempDir(), 0)
	require.NoError(t, err)
	f := fetcher.New("", 5*time.Second, 0)

	records, results := collectSources(discardLogger(), testConfig(srv.URL+"/ok"), f, cache, nil, 0)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Error)
	require.Len(t, records, 2)
	assert.Equal(t, "Team Alpha", records[0].Team)
	assert.Equal(t, "Karnataka", records[1].State)
}

func TestFailedSourceDoesNotHaltRun(t *testing.T) {
	srv := testServer(t)

	cache, err := caching.New(t.TempDir(), 0)
	require.NoError(t, err)
	f := fetcher.New("", 5*time.Second, 0)

	config := testConfig(srv.URL+"/bad", srv.URL+"/ok")
	records, results := collectSources(discardLogger(), config, f, cache, nil, 0)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Error)
	assert.Equal(t, "fetch_error", results[0].ErrorType)
	assert.Zero(t, results[0].Records)

	// The failing source contributed nothing, but the following one
	// was still collected in full.
	assert.NoError(t, results[1].Error)
	assert.Len(t, records, 2)
}

func TestFreshCacheSkipsNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(resultPage))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	f := fetcher.New("", 5*time.Second, 0)
	config := testConfig(srv.URL)

	cold, err := caching.New(dir, time.Hour)
	require.NoError(t, err)
	_, results := collectSources(discardLogger(), config, f, cold, nil, 0)
	require.Len(t, results, 1)
	assert.False(t, results[0].FromCache)

	warm, err := caching.New(dir, time.Hour)
	require.NoError(t, err)
	records, results := collectSources(discardLogger(), config, f, warm, nil, 0)
	require.Len(t, results, 1)
	assert.True(t, results[0].FromCache)
	assert.Len(t, records, 2)

	assert.Equal(t, 1, hits)
}
