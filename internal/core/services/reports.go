// internal/core/services/reports.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

const (
	DefaultReportFetchCap = 10000
	DefaultCurrency       = "PKR"
)

var (
	ErrUnknownReportKind   = errors.New("unknown report kind")
	ErrUnknownReportFormat = errors.New("unknown report format")
)

var reportHeaders = map[domain.ReportKind][]string{
	domain.ReportAll:      {"Item ID", "Item Name", "Category", "Quantity", "Unit Price", "Total Value", "Location", "Created Date"},
	domain.ReportLowStock: {"Item Name", "Category", "Current Quantity", "Reorder Level", "Shortage"},
	domain.ReportValue:    {"Item Name", "Category", "Quantity", "Unit Price", "Total Value"},
}

var reportSheetNames = map[domain.ReportKind]string{
	domain.ReportAll:      "Inventory",
	domain.ReportLowStock: "Low Stock",
	domain.ReportValue:    "Valuation",
}

// ParseReportKind validates a report kind taken from a URL
func ParseReportKind(s string) (domain.ReportKind, error) {
	kind := domain.ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := reportHeaders[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReportKind, s)
	}
	return kind, nil
}

// ParseReportFormat validates a format; empty means CSV
func ParseReportFormat(s string) (domain.ReportFormat, error) {
	switch domain.ReportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", domain.FormatCSV:
		return domain.FormatCSV, nil
	case domain.FormatXLSX:
		return domain.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReportFormat, s)
	}
}

type cellKind int

const (
	cellText cellKind = iota
	cellInt
	cellMoney
)

type reportCell struct {
	kind  cellKind
	text  string
	num   int
	money decimal.Decimal
}

func textCell(s string) reportCell           { return reportCell{kind: cellText, text: s} }
func intCell(n int) reportCell               { return reportCell{kind: cellInt, num: n} }
func moneyCell(d decimal.Decimal) reportCell { return reportCell{kind: cellMoney, money: d} }

// reportTable is the format-independent shape of a report
type reportTable struct {
	header []string
	rows   [][]reportCell
	// summary is set for the valuation report only
	summary *reportSummary
}

type reportSummary struct {
	label string
	total decimal.Decimal
}

// ReportOption configures a ReportService
type ReportOption func(*ReportService)

// WithClock overrides the clock used for report filenames
func WithClock(now func() time.Time) ReportOption {
	return func(s *ReportService) { s.now = now }
}

// WithFetchCap sets how many items the full and valuation reports request
func WithFetchCap(n int) ReportOption {
	return func(s *ReportService) {
		if n > 0 {
			s.fetchCap = n
		}
	}
}

// WithCurrency sets the currency label of the valuation summary line
func WithCurrency(currency string) ReportOption {
	return func(s *ReportService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// ReportService builds downloadable reports from backend data
type ReportService struct {
	fetchCap int
	currency string
	now      func() time.Time
	logger   *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, opts ...ReportOption) *ReportService {
	s := &ReportService{
		fetchCap: DefaultReportFetchCap,
		currency: DefaultCurrency,
		now:      time.Now,
		logger:   logger.With(slog.String("service", "reports")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate fetches the dataset for kind and renders it in the given format
func (s *ReportService) Generate(ctx context.Context, api ports.InventoryAPI, kind domain.ReportKind, format domain.ReportFormat) (*domain.Report, error) {
	items, err := s.Fetch(ctx, api, kind)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case domain.FormatCSV:
		data, err = s.BuildCSV(kind, items)
	case domain.FormatXLSX:
		data, err = s.BuildXLSX(kind, items)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownReportFormat, format)
	}
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Kind:        kind,
		Format:      format,
		Filename:    s.Filename(kind, format),
		ContentType: format.ContentType(),
		Rows:        len(items),
		Data:        data,
	}

	s.logger.InfoContext(ctx, "report generated",
		slog.String("kind", string(kind)),
		slog.String("format", string(format)),
		slog.Int("rows", report.Rows),
		slog.Int("bytes", len(data)))

	return report, nil
}

// Fetch retrieves the records a report is built from
func (s *ReportService) Fetch(ctx context.Context, api ports.InventoryAPI, kind domain.ReportKind) ([]domain.Item, error) {
	switch kind {
	case domain.ReportLowStock:
		items, err := api.LowStockItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch low stock items: %w", err)
		}
		return items, nil
	case domain.ReportAll, domain.ReportValue:
		page, err := api.ListItems(ctx, 0, s.fetchCap)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items: %w", err)
		}
		if page == nil {
			return nil, nil
		}
		return page.Content, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}
}

// Filename returns report-<kind>-<YYYY-MM-DD>.<ext> using the UTC date
func (s *ReportService) Filename(kind domain.ReportKind, format domain.ReportFormat) string {
	return fmt.Sprintf("report-%s-%s.%s", kind, s.now().UTC().Format("2006-01-02"), format)
}

func (s *ReportService) table(kind domain.ReportKind, items []domain.Item) (*reportTable, error) {
	header, ok := reportHeaders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}

	t := &reportTable{header: header, rows: make([][]reportCell, 0, len(items))}

	switch kind {
	case domain.ReportAll:
		for _, item := range items {
			t.rows = append(t.rows, []reportCell{
				intCell(item.ID),
				textCell(item.Name),
				textCell(item.CategoryName),
				intCell(item.Quantity),
				moneyCell(item.UnitPrice),
				moneyCell(item.TotalValue),
				textCell(item.Location),
				textCell(item.CreatedAt),
			})
		}
	case domain.ReportLowStock:
		for _, item := range items {
			t.rows = append(t.rows, []reportCell{
				textCell(item.Name),
				textCell(item.CategoryName),
				intCell(item.Quantity),
				intCell(item.ReorderLevel),
				intCell(item.Shortage()),
			})
		}
	case domain.ReportValue:
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.TotalValue)
			t.rows = append(t.rows, []reportCell{
				textCell(item.Name),
				textCell(item.CategoryName),
				intCell(item.Quantity),
				moneyCell(item.UnitPrice),
				moneyCell(item.TotalValue),
			})
		}
		t.summary = &reportSummary{
			label: fmt.Sprintf("Grand Total Value (%s)", s.currency),
			total: total,
		}
	}

	return t, nil
}

// BuildCSV renders the report as CSV text. Text fields are always quoted with
// embedded quotes doubled; numbers are bare and money has two decimals.
func (s *ReportService) BuildCSV(kind domain.ReportKind, items []domain.Item) ([]byte, error) {
	t, err := s.table(kind, items)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(t.header, ","))
	buf.WriteByte('\n')

	for _, row := range t.rows {
		for i, c := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCSVCell(&buf, c)
		}
		buf.WriteByte('\n')
	}

	if t.summary != nil {
		buf.WriteByte('\n')
		buf.WriteString(t.summary.label)
		buf.WriteByte(',')
		buf.WriteString(t.summary.total.StringFixed(2))
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func writeCSVCell(buf *bytes.Buffer, c reportCell) {
	switch c.kind {
	case cellInt:
		buf.WriteString(strconv.Itoa(c.num))
	case cellMoney:
		buf.WriteString(c.money.StringFixed(2))
	default:
		buf.WriteString(QuoteCSV(c.text))
	}
}

// QuoteCSV wraps s in double quotes, doubling any embedded quote
func QuoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// BuildXLSX renders the report as a single-sheet workbook with a bold header
func (s *ReportService) BuildXLSX(kind domain.ReportKind, items []domain.Item) ([]byte, error) {
	t, err := s.table(kind, items)
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(reportSheetNames[kind])
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range t.header {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, row := range t.rows {
		dataRow := sheet.AddRow()
		for _, c := range row {
			cell := dataRow.AddCell()
			switch c.kind {
			case cellInt:
				cell.SetInt(c.num)
			case cellMoney:
				cell.SetFloat(c.money.Round(2).InexactFloat64())
			default:
				cell.SetString(c.text)
			}
		}
	}

	if t.summary != nil {
		sheet.AddRow()
		summaryRow := sheet.AddRow()
		label := summaryRow.AddCell()
		label.SetString(t.summary.label)
		label.GetStyle().Font.Bold = true
		summaryRow.AddCell().SetFloat(t.summary.total.Round(2).InexactFloat64())
	}

	for i := range t.header {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buf.Bytes(), nil
}
