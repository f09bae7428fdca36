package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t,
		"name,asset,door_no,category,Local Agent\n"+
			"Truck 1,A-1,D-1,truck,ACME\n"+
			"Truck 2,A-2,,trailer,\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, "Truck 1", rows[0].Name)
	require.Equal(t, "A-1", rows[0].Asset)
	require.Equal(t, "D-1", rows[0].DoorNo)
	require.Equal(t, "ACME", rows[0].LocalAgent)

	require.Equal(t, 3, rows[1].Line)
	require.Equal(t, "", rows[1].DoorNo)
}

func TestReadCSV_StripsBOM(t *testing.T) {
	path := writeTempCSV(t, "\xEF\xBB\xBFname,asset\nTruck 1,A-1\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Truck 1", rows[0].Name)
	require.Equal(t, "A-1", rows[0].Asset)
}

func TestReadCSV_MissingColumnsReadEmpty(t *testing.T) {
	path := writeTempCSV(t, "asset\nA-1\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A-1", rows[0].Asset)
	require.Equal(t, "", rows[0].Name)
	require.Equal(t, "", rows[0].DoorNo)
}

func TestReadCSV_UnknownColumnsIgnored(t *testing.T) {
	path := writeTempCSV(t, "asset,exported_at\nA-1,2024-01-01\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A-1", rows[0].Asset)
}

func TestReadCSV_RaggedRows(t *testing.T) {
	path := writeTempCSV(t, "name,asset,door_no\nTruck 1,A-1\n")

	rows, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A-1", rows[0].Asset)
	require.Equal(t, "", rows[0].DoorNo)
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")

	_, err := ReadCSV(path)
	require.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"name", "asset", "door_no"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Truck 1", "A-1", "D-1"}))

	path := filepath.Join(t.TempDir(), "fleet.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadSourceFile(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Truck 1", rows[0].Name)
	require.Equal(t, "A-1", rows[0].Asset)
	require.Equal(t, "D-1", rows[0].DoorNo)
	require.Equal(t, 2, rows[0].Line)
}

func TestReadSourceFile_DispatchesOnExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.CSV")
	require.NoError(t, os.WriteFile(path, []byte("asset\nA-1\n"), 0o644))

	rows, err := ReadSourceFile(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSourceRowIdentifier(t *testing.T) {
	require.Equal(t, "A-1", SourceRow{Asset: "A-1", DoorNo: "D-1"}.Identifier())
	require.Equal(t, "D-1", SourceRow{DoorNo: "D-1", PlateNumber: "P 1"}.Identifier())
	require.Equal(t, "P 1", SourceRow{PlateNumber: "P 1"}.Identifier())
	require.Equal(t, "Truck 1", SourceRow{Name: "Truck 1"}.Identifier())
	require.Equal(t, "line 7", SourceRow{Line: 7}.Identifier())
}
