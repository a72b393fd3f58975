package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/mapper"
)

type SaveResult struct {
	// Saved is the number of rows sent by this action.
	Saved int
	// TotalSaved is the backend's running total.
	TotalSaved int
}

// Status drives the export and clear controls.
type Status struct {
	Count     int
	CanExport bool
	CanClear  bool
}

// ExportService persists rows through the backend spreadsheet store.
type ExportService struct {
	shop shopping.Service
	log  *slog.Logger
}

func NewExportService(shop shopping.Service, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{shop: shop, log: logger}
}

// SaveDetail sends one row per seller of d.
func (s *ExportService) SaveDetail(ctx context.Context, d shopping.ProductDetail, geo shopping.Geolocation, queryText string) (SaveResult, error) {
	rows := mapper.DeriveRows(d, geo, queryText)

	total, err := s.shop.SaveMultipleToExcel(ctx, rows)
	if err != nil {
		return SaveResult{}, &ActionError{Message: pickMessage("Failed to save products", err), Err: err}
	}

	s.log.Info("seller rows saved", "product_id", d.ProductID, "rows", len(rows), "total", total)
	return SaveResult{Saved: len(rows), TotalSaved: total}, nil
}

// SaveCard sends a search hit as is, tagged with its geolocation. The backend
// derives the spreadsheet row from the raw hit; DeriveSingleRow only previews it.
func (s *ExportService) SaveCard(ctx context.Context, p shopping.ProductSummary, geo shopping.Geolocation) (SaveResult, error) {
	total, err := s.shop.SaveToExcel(ctx, mapper.SavePayload(p, geo))
	if err != nil {
		return SaveResult{}, &ActionError{Message: pickMessage("Failed to save product", err), Err: err}
	}

	s.log.Info("product saved", "product_id", p.ProductID, "total", total)
	return SaveResult{Saved: 1, TotalSaved: total}, nil
}

func (s *ExportService) Count(ctx context.Context) (Status, error) {
	n, err := s.shop.ExcelDataCount(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("excel data count: %w", err)
	}
	return Status{Count: n, CanExport: n > 0, CanClear: n > 0}, nil
}

// Export streams the workbook into w.
func (s *ExportService) Export(ctx context.Context, w io.Writer) (int64, error) {
	n, err := s.shop.ExportExcel(ctx, w)
	if err != nil {
		return n, &ActionError{Message: "Export failed", Err: err}
	}
	s.log.Info("workbook exported", "bytes", n)
	return n, nil
}

func (s *ExportService) Clear(ctx context.Context) error {
	if err := s.shop.ClearExcelData(ctx); err != nil {
		return &ActionError{Message: "Failed to clear data", Err: err}
	}
	s.log.Info("excel data cleared")
	return nil
}

// ExportFilename names a downloaded workbook after the export time.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("shopping-results-%d.xlsx", now.UnixMilli())
}
