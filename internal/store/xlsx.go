package store

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/leapledger/pkg/core"
)

// SheetName is the worksheet written to xlsx ledgers.
const SheetName = "Customers"

// defaultSheet is the worksheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

type xlsxCodec struct{}

// Decode reads the rows of the workbook's active sheet.
func (xlsxCodec) Decode(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

// Encode writes a single-sheet workbook. Name and Phone are text cells so
// leading zeros survive; amounts are numeric cells.
func (xlsxCodec) Encode(w io.Writer, customers []core.Customer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return err
	}

	header := make([]any, len(core.Columns))
	for i, col := range core.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, c := range customers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.Name, c.Phone, c.Monthly, c.Payment, c.Due()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
