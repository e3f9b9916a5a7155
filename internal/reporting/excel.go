package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/journal"
)

// WriteTradeHistoryXLSX exports journal records to an Excel workbook at
// path. The directory is created when missing.
func WriteTradeHistoryXLSX(records []journal.Record, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	currencyStyle, err := fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return err
	}

	headers := []string{"Time", "Symbol", "Side", "Price", "Quantity", "Notional", "Realized P&L", "Motive"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	fx.SetCellStyle(sheet, "A1", endHeader, headerStyle)

	for row, rec := range records {
		values := []interface{}{
			rec.Timestamp.Format(time.RFC3339),
			rec.Symbol,
			rec.Side,
			rec.Price,
			rec.Quantity,
			rec.Notional,
			rec.RealizedPnL,
			rec.Motive,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, v)
		}
	}

	if len(records) > 0 {
		start, _ := excelize.CoordinatesToCellName(4, 2)
		end, _ := excelize.CoordinatesToCellName(7, len(records)+1)
		fx.SetCellStyle(sheet, start, end, currencyStyle)
	}

	fx.SetColWidth(sheet, "A", "A", 22)
	fx.SetColWidth(sheet, "B", "C", 12)
	fx.SetColWidth(sheet, "D", "G", 14)
	fx.SetColWidth(sheet, "H", "H", 18)

	return fx.SaveAs(path)
}
