package service

import (
	"context"
	"fmt"
	"io"

	"thrive/models"

	"github.com/xuri/excelize/v2"
)

const (
	expenseSheet = "Expenses"
	incomeSheet  = "Incomes"
)

// ExportService writes the admin workbook.
type ExportService struct {
	admin *AdminService
}

// NewExportService creates the export service.
func NewExportService(admin *AdminService) *ExportService {
	return &ExportService{admin: admin}
}

// WriteWorkbook streams an .xlsx with one sheet of expenses and one of incomes.
func (s *ExportService) WriteWorkbook(ctx context.Context, w io.Writer) error {
	expenses, err := s.admin.ListExpenses(ctx)
	if err != nil {
		return err
	}
	incomes, err := s.admin.ListIncomes(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return err
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	expenseRows := make([][]any, 0, len(expenses))
	var expenseAmounts []float64
	for _, e := range expenses {
		name, email := owner(e.User)
		expenseRows = append(expenseRows, []any{e.ID, name, email, e.Amount, e.Category, e.Description, e.Date.Format("2006-01-02 15:04:05")})
		expenseAmounts = append(expenseAmounts, e.Amount)
	}
	if err := writeSheet(f, styles, expenseSheet,
		[]string{"ID", "User", "Email", "Amount", "Category", "Description", "Date"},
		expenseRows, toFloat(Sum(expenseAmounts...))); err != nil {
		return err
	}

	incomeRows := make([][]any, 0, len(incomes))
	var incomeAmounts []float64
	for _, inc := range incomes {
		name, email := owner(inc.User)
		incomeRows = append(incomeRows, []any{inc.ID, name, email, inc.Amount, inc.Source, "", inc.Date.Format("2006-01-02 15:04:05")})
		incomeAmounts = append(incomeAmounts, inc.Amount)
	}
	if err := writeSheet(f, styles, incomeSheet,
		[]string{"ID", "User", "Email", "Amount", "Source", "Description", "Date"},
		incomeRows, toFloat(Sum(incomeAmounts...))); err != nil {
		return err
	}

	return f.Write(w)
}

type sheetStyles struct {
	header, data, summary int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var st sheetStyles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return st, err
	}
	if st.data, err = f.NewStyle(&excelize.Style{Alignment: center, Border: border}); err != nil {
		return st, err
	}
	if st.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return st, err
	}
	return st, nil
}

func writeSheet(f *excelize.File, st sheetStyles, sheet string, headers []string, rows [][]any, total float64) error {
	widths := []float64{8, 18, 26, 12, 16, 30, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", st.header); err != nil {
		return err
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), st.data); err != nil {
			return err
		}
	}

	summaryRow := len(rows) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), total); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d records", len(rows))); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow), st.summary)
}

func owner(ref *models.UserRef) (name, email string) {
	if ref == nil {
		return "", ""
	}
	return ref.Name, ref.Email
}
