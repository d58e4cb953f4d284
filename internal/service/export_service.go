package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
	"github.com/noah-isme/tempo-api/pkg/export"
)

// ExportFormat selects the rendering of a week export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type exportSheetReader interface {
	FindByWeekStart(ctx context.Context, userID string, weekStart time.Time) (*models.TimeSheet, error)
}

type exportEntryReader interface {
	ListBySheet(ctx context.Context, sheetID string) ([]models.TimeEntry, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered week export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a reconciled week as a downloadable file.
type ExportService struct {
	sheets  exportSheetReader
	entries exportEntryReader
	csv     csvRenderer
	pdf     pdfRenderer
	enabled bool
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sheets exportSheetReader, entries exportEntryReader, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sheets:  sheets,
		entries: entries,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		enabled: enabled,
		logger:  logger,
	}
}

var exportHeaders = []string{
	"Type", "Mission", "Tâche", "Activité",
	"Lun", "Mar", "Mer", "Jeu", "Ven", "Sam", "Dim", "Total",
}

// WeekExport renders the caller's reconciled week in the requested format.
func (s *ExportService) WeekExport(ctx context.Context, claims *models.JWTClaims, anchorRaw string, format ExportFormat) (*ExportFile, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	anchor := time.Now().UTC()
	if anchorRaw != "" {
		parsed, err := models.ParseDate(anchorRaw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
		}
		anchor = parsed
	}
	monday, _ := models.WeekRange(anchor)

	sheet, err := s.sheets.FindByWeekStart(ctx, claims.UserID, monday)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no time sheet for this week")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load time sheet")
	}

	entries, err := s.entries.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load entries")
	}

	dataset := buildWeekDataset(models.Reconcile(entries))
	title := fmt.Sprintf("Feuille de temps %s - %s", models.FormatDate(sheet.WeekStart), models.FormatDate(sheet.WeekEnd))

	var payload []byte
	var contentType string
	switch format {
	case ExportCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("timesheet-%s.%s", models.FormatDate(sheet.WeekStart), format)
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildWeekDataset(rows []models.Row) export.Dataset {
	dataset := export.Dataset{Headers: exportHeaders}
	var dayTotals [7]float64
	var grandTotal float64

	for _, row := range rows {
		record := map[string]string{
			"Type":     string(row.Key.Category),
			"Mission":  row.MissionName,
			"Tâche":    row.TaskName,
			"Activité": row.ActivityName,
			"Total":    formatHours(row.Total),
		}
		for day := 0; day < 7; day++ {
			record[exportHeaders[4+day]] = formatHours(row.Days[day])
			dayTotals[day] += row.Days[day]
		}
		grandTotal += row.Total
		dataset.Rows = append(dataset.Rows, record)
	}

	footer := []string{"Total", "", "", ""}
	for day := 0; day < 7; day++ {
		footer = append(footer, formatHours(dayTotals[day]))
	}
	footer = append(footer, formatHours(grandTotal))
	dataset.Footer = footer
	return dataset
}

func formatHours(h float64) string {
	if h == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSuffix(strconv.FormatFloat(h, 'f', 2, 64), "0"), ".0")
}
