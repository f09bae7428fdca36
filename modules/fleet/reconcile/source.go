package reconcile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Expected column names of the fleet-management export. Extra columns are
// ignored; missing ones read as empty strings.
const (
	colManufacturer    = "manufacturer"
	colName            = "name"
	colCapacity        = "capacity"
	colCategory        = "category"
	colTractorCategory = "tractor category"
	colTrailerCategory = "trailer category"
	colModel           = "model"
	colPlateNumber     = "plate_number"
	colAsset           = "asset"
	colDoorNo          = "door_no"
	colChassisNo       = "chassis_no"
	colSequenceNo      = "sequence_no"
	colLocalAgent      = "Local Agent"
	colType            = "type"
	colBuiltInTrailer  = "built_in_trailer"
	colBuiltInReefer   = "built_in_reefer"
)

// SourceRow is one raw line from the import file. Values are untouched
// strings; normalization happens in the Normalizer.
type SourceRow struct {
	Line int

	Manufacturer    string
	Name            string
	Capacity        string
	Category        string
	TractorCategory string
	TrailerCategory string
	Model           string
	PlateNumber     string
	Asset           string
	DoorNo          string
	ChassisNo       string
	SequenceNo      string
	LocalAgent      string
	Type            string
	BuiltInTrailer  string
	BuiltInReefer   string
}

// Identifier returns the best-effort handle used to key per-row errors in
// the run report.
func (r SourceRow) Identifier() string {
	for _, candidate := range []string{r.Asset, r.DoorNo, r.PlateNumber, r.Name} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return fmt.Sprintf("line %d", r.Line)
}

// ReadSourceFile reads the import file at path, picking the reader by file
// extension. sheet is only used for .xlsx input.
func ReadSourceFile(path, sheet string) ([]SourceRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	default:
		return ReadCSV(path)
	}
}

func ReadCSV(path string) ([]SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	br := stripUTF8BOM(bufio.NewReader(f))
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return rowsFromTable(header, records), nil
}

func ReadXLSX(path, sheet string) ([]SourceRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header")
	}
	return rowsFromTable(rows[0], rows[1:]), nil
}

func rowsFromTable(header []string, records [][]string) []SourceRow {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	out := make([]SourceRow, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		get := func(name string) string {
			j, ok := idx[name]
			if !ok || j >= len(rec) {
				return ""
			}
			return rec[j]
		}
		out = append(out, SourceRow{
			Line:            i + 2, // header is line 1
			Manufacturer:    get(colManufacturer),
			Name:            get(colName),
			Capacity:        get(colCapacity),
			Category:        get(colCategory),
			TractorCategory: get(colTractorCategory),
			TrailerCategory: get(colTrailerCategory),
			Model:           get(colModel),
			PlateNumber:     get(colPlateNumber),
			Asset:           get(colAsset),
			DoorNo:          get(colDoorNo),
			ChassisNo:       get(colChassisNo),
			SequenceNo:      get(colSequenceNo),
			LocalAgent:      get(colLocalAgent),
			Type:            get(colType),
			BuiltInTrailer:  get(colBuiltInTrailer),
			BuiltInReefer:   get(colBuiltInReefer),
		})
	}
	return out
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
