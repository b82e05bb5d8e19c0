// Package export turns a section's records into a downloadable spreadsheet.
package export

import (
	"context"
	"fmt"
	"time"

	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/internal/store"
	"instituteweb/admin-console/internal/view"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	registry *schema.Registry
	store    store.Store
}

func NewService(logger *zap.Logger, registry *schema.Registry, st store.Store) *Service {
	return &Service{
		logger:   logger,
		tracer:   otel.Tracer("export/service"),
		registry: registry,
		store:    st,
	}
}

// Workbook fetches a section's records and lays them out as one sheet, with
// rows in SortOrder. The returned filename carries the export date.
func (s *Service) Workbook(ctx context.Context, section string) (*excelize.File, string, error) {
	traceCtx, span := s.tracer.Start(ctx, "Workbook")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	sch, err := s.registry.SchemaFor(section)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	records, err := s.store.List(traceCtx, section)
	if err != nil {
		span.RecordError(err)
		logger.Warn("Failed to fetch records for export", zap.String("section", section), zap.Error(err))
		return nil, "", err
	}

	f, err := buildWorkbook(sch, records)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-%s.xlsx", section, time.Now().Format("2006-01-02"))
	logger.Info("Built export workbook", zap.String("section", section), zap.Int("records", len(records)))
	return f, filename, nil
}

func buildWorkbook(sch schema.Schema, records []record.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := sch.Title
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []string{"ID", "Sort Order", "Published", "Updated At"}
	for _, field := range sch.Fields {
		header = append(header, field.Label)
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return nil, err
	}

	list := view.RenderList(sch, records)
	for i, row := range list.Rows {
		var target record.Record
		for _, r := range records {
			if r.ID == row.ID {
				target = r
				break
			}
		}

		cells := []any{
			row.ID,
			row.SortOrder,
			row.IsPublished,
			row.UpdatedAt.Format(time.RFC3339),
		}
		for _, field := range sch.Fields {
			cells = append(cells, view.CellText(field, target.Fields[field.Name]))
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, cells []T) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
