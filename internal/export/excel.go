// Package export renders report rows into downloadable artifacts. The engine
// itself only hands over plain rows plus a title; this package owns the
// spreadsheet layout.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/weeklypay/ledger-engine/internal/domain"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

var itemizedHeaders = []string{
	"Customer Name", "Phone", "Total Amount", "Amount Received", "Remaining Amount",
	"Payment Due Date", "Paid Date", "Week Number", "Status", "Date Of Amount Taken",
}

var summarizedHeaders = []string{
	"Customer Name", "Phone", "Total Amount", "Amount Received", "Remaining Amount",
	"Date Of Amount Taken",
}

// ExcelRenderer turns report rows into an .xlsx workbook: title block,
// generation timestamp, record count, then the table.
type ExcelRenderer struct {
	Now func() time.Time
}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{Now: time.Now}
}

// Render builds the workbook for the rows. Rendering an empty row set is a
// typed no-data outcome, not a silent empty file.
func (r *ExcelRenderer) Render(rows []domain.ReportRow, g domain.Granularity) ([]byte, error) {
	if len(rows) == 0 {
		return nil, customError.WrapNoReportData()
	}

	headers := summarizedHeaders
	if g.Itemized() {
		headers = itemizedHeaders
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", g.Title())
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated on: %s", r.Now().Format("02/01/2006 15:04")))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Total Records: %d", len(rows)))

	const headerRow = 5
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		values := cellValues(row, g.Itemized())
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	if err := sizeColumns(f, sheet, headers); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellValues(row domain.ReportRow, itemized bool) []interface{} {
	total, _ := row.TotalAmount.Float64()
	received, _ := row.AmountReceived.Float64()
	remaining, _ := row.RemainingAmount.Float64()

	values := []interface{}{
		row.CustomerName,
		row.Phone,
		total,
		received,
		remaining,
	}
	if itemized {
		values = append(values,
			formatDate(row.PaymentDueDate),
			formatDate(row.PaidDate),
			row.WeekNumber,
			row.Status,
		)
	}
	return append(values, row.DateOfAmountTaken.Format(time.DateOnly))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func sizeColumns(f *excelize.File, sheet string, headers []string) error {
	for col := range headers {
		width := len(headers[col]) + 2
		if width < 10 {
			width = 10
		}
		if width > 30 {
			width = 30
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// FilenameStem suggests the download name for a report generated now,
// e.g. "weekly-report-2024-01-15". The renderer's consumer appends the
// extension.
func FilenameStem(g domain.Granularity, now time.Time) string {
	return fmt.Sprintf("%s-report-%s", string(g), now.Format(time.DateOnly))
}
