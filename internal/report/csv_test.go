package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
)

func sampleTable() inventory.Table {
	return inventory.Table{
		Name:    "Hosts",
		Columns: []string{"Endpoint", "Host", "Version"},
		Rows: [][]string{
			{"vc1", "esx01", "8.0.2"},
			{"vc1", "esx02", ""},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.csv")

	require.NoError(t, WriteCSV(path, sampleTable()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Endpoint", "Host", "Version"}, records[0])
	assert.Equal(t, []string{"vc1", "esx01", "8.0.2"}, records[1])
	assert.Equal(t, []string{"vc1", "esx02", ""}, records[2])
}

func TestWriteCSVReportIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.csv")

	require.NoError(t, WriteCSV(path, sampleTable()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteCSVReplacesExistingReportAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts.csv")
	require.NoError(t, os.WriteFile(path, []byte("old content\n"), 0o644))

	require.NoError(t, WriteCSV(path, sampleTable()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old content")

	// No temp file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hosts.csv", entries[0].Name())
}

func TestWriteCSVMissingDirectoryFails(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "hosts.csv"), sampleTable())
	assert.Error(t, err)
}
