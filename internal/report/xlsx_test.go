package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-report.xlsx")

	hosts := sampleTable()
	nics := inventory.Table{
		Name:    "NICs",
		Columns: []string{"Endpoint", "Host", "Adapter"},
		Rows:    [][]string{{"vc1", "esx01", "vmnic0"}},
	}
	require.NoError(t, WriteWorkbook(path, []inventory.Table{hosts, nics}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Hosts", "NICs"}, f.GetSheetList())

	v, err := f.GetCellValue("Hosts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Endpoint", v)

	v, err = f.GetCellValue("Hosts", "C2")
	require.NoError(t, err)
	assert.Equal(t, "8.0.2", v)

	v, err = f.GetCellValue("NICs", "C2")
	require.NoError(t, err)
	assert.Equal(t, "vmnic0", v)

	// Empty cells stay empty rather than rendering a null marker.
	v, err = f.GetCellValue("Hosts", "C3")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteWorkbookEmptyTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-report.xlsx")

	empty := inventory.Table{Name: "Hosts", Columns: []string{"Endpoint", "Host"}}
	require.NoError(t, WriteWorkbook(path, []inventory.Table{empty}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Hosts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Endpoint", v)
}
