package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"wedledger/internal/domain/analytics"
	"wedledger/internal/domain/gifts"
)

const (
	giftsSheet   = "Gifts"
	summarySheet = "Summary"
)

var giftHeaders = []string{"Date", "Recipient", "Amount", "Currency", "From", "Event", "Memo"}

// WriteLedger renders the ledger and its summary as an xlsx workbook.
func WriteLedger(w io.Writer, ledger *gifts.Ledger, summary analytics.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", giftsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, giftsSheet, 1, toCells(giftHeaders), headerStyle); err != nil {
		return err
	}

	names := make(map[string]string, len(ledger.Members))
	for _, member := range ledger.Members {
		names[member.ID] = member.Name
	}

	for i, gift := range ledger.Gifts {
		from := ""
		if id := gift.FromID(); id != "" {
			from = names[id]
			if from == "" {
				from = analytics.UnknownMemberName
			}
		}
		row := []interface{}{
			gift.Date.Format("2006-01-02"),
			gift.RecipientName,
			gift.Amount.InexactFloat64(),
			gift.Currency,
			from,
			gift.EventName,
			gift.Memo,
		}
		if err := writeRow(f, giftsSheet, i+2, row, 0); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(giftsSheet, "A", "G", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(giftsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if err := writeSummary(f, summary, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, summary analytics.Report, headerStyle int) error {
	row := 1
	total := "unavailable"
	if summary.Total.Available {
		total = summary.Total.Total.StringFixed(2) + " " + summary.Total.Currency
	}
	average := "unavailable"
	if summary.Average.Available {
		average = summary.Average.Amount.StringFixed(2) + " " + summary.Total.Currency
	}

	for _, pair := range [][]interface{}{
		{"Gifts", summary.GiftCount},
		{"Total", total},
		{"Average", average},
	} {
		if err := writeRow(f, summarySheet, row, pair, 0); err != nil {
			return err
		}
		row++
	}

	row++
	if err := writeRow(f, summarySheet, row, toCells([]string{"Family member", "Gifts", "Amount"}), headerStyle); err != nil {
		return err
	}
	for _, member := range summary.ByMember {
		row++
		if err := writeRow(f, summarySheet, row, []interface{}{member.Name, member.Count, member.Amount.InexactFloat64()}, 0); err != nil {
			return err
		}
	}

	row += 2
	if err := writeRow(f, summarySheet, row, toCells([]string{"Month", "Gifts"}), headerStyle); err != nil {
		return err
	}
	for _, month := range summary.ByMonth {
		row++
		if err := writeRow(f, summarySheet, row, []interface{}{month.Month, month.Count}, 0); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "C", 20)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return cells
}
