// internal/core/domain/report.go
package domain

// ReportKind identifies one of the exportable report variants
type ReportKind string

const (
	ReportAll      ReportKind = "all"
	ReportLowStock ReportKind = "low-stock"
	ReportValue    ReportKind = "value"
)

// ReportFormat identifies the file format of a generated report
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
)

// ContentType returns the MIME type for the format
func (f ReportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Report is a generated file ready to be downloaded or archived
type Report struct {
	Kind        ReportKind   `json:"kind"`
	Format      ReportFormat `json:"format"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Rows        int          `json:"rows"`
	Data        []byte       `json:"-"`
}

// ChartSeries is a labelled series handed to the chart library
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}
