package benchmarks

import (
	"fmt"
	"testing"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/test/helpers"
)

func BenchmarkReportGeneration(b *testing.B) {
	svc := services.NewReportService(helpers.TestLogger())

	for _, size := range []int{100, 1000, 10000} {
		items := helpers.CreateTestItems(size)

		for _, kind := range []domain.ReportKind{domain.ReportAll, domain.ReportLowStock, domain.ReportValue} {
			b.Run(fmt.Sprintf("CSV_%s_%d", kind, size), func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_, _ = svc.BuildCSV(kind, items)
				}
			})
		}

		b.Run(fmt.Sprintf("XLSX_all_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = svc.BuildXLSX(domain.ReportAll, items)
			}
		})
	}
}

func BenchmarkQuoteCSV(b *testing.B) {
	values := []string{
		"USB-C Cable",
		`Cable, "braided"`,
		"multi\nline",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = services.QuoteCSV(values[i%len(values)])
	}
}

func BenchmarkPagination(b *testing.B) {
	items := helpers.CreateTestItems(domain.DefaultPageSize)

	b.Run("BuildRows", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = services.BuildRows(items, true)
		}
	})

	b.Run("BuildPagination", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = services.BuildPagination(i%50, 50)
		}
	})
}
