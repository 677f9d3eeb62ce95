package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"spectres-crm/internal/cache"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"
	"spectres-crm/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"
)

const (
	reportSummaryTTL  = 5 * time.Minute
	defaultReportDays = 30
	maxReportDays     = 365
)

type ReportSource interface {
	CountByStatus(ctx context.Context, ownerID *uuid.UUID) ([]models.StatusCount, error)
	OwnerSummaries(ctx context.Context, since time.Time) ([]models.OwnerSummary, error)
}

type CallCounter interface {
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type ReportService struct {
	Clients   ReportSource
	Calls     CallCounter
	summaries *cache.Typed[models.ReportSummary]
	now       func() time.Time
}

func NewReportService(clients ReportSource, calls CallCounter, store cache.Store) *ReportService {
	return &ReportService{
		Clients:   clients,
		Calls:     calls,
		summaries: cache.NewTyped[models.ReportSummary](store, "reports:summary:"),
		now:       timeutil.Now,
	}
}

func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// ClampDays bounds the reporting window
func ClampDays(days int) int {
	if days <= 0 {
		return defaultReportDays
	}
	if days > maxReportDays {
		return maxReportDays
	}
	return days
}

// Summary returns pipeline counts per status and per owner plus call volume
// over the last days. Results are cached for five minutes.
func (s *ReportService) Summary(ctx context.Context, actor Actor, days int) (*models.ReportSummary, error) {
	if !actor.Can(permissions.ViewReports) {
		return nil, ErrForbidden
	}
	days = ClampDays(days)

	summary, err := s.summaries.GetOrLoad(ctx, strconv.Itoa(days), reportSummaryTTL, func(ctx context.Context) (models.ReportSummary, error) {
		return s.build(ctx, days)
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Invalidate drops every cached summary
func (s *ReportService) Invalidate(ctx context.Context) {
	if err := s.summaries.Invalidate(ctx); err != nil {
		log.Printf("[ReportService] Failed to invalidate summary cache: %v", err)
	}
}

func (s *ReportService) build(ctx context.Context, days int) (models.ReportSummary, error) {
	now := s.now()
	since := timeutil.StartOfDay(now).AddDate(0, 0, -days)

	byStatus, err := s.Clients.CountByStatus(ctx, nil)
	if err != nil {
		return models.ReportSummary{}, fmt.Errorf("count by status: %w", err)
	}
	byOwner, err := s.Clients.OwnerSummaries(ctx, since)
	if err != nil {
		return models.ReportSummary{}, fmt.Errorf("owner summaries: %w", err)
	}
	calls, err := s.Calls.CountSince(ctx, since)
	if err != nil {
		return models.ReportSummary{}, fmt.Errorf("count calls: %w", err)
	}

	total := 0
	for _, sc := range byStatus {
		total += sc.Count
	}
	if byStatus == nil {
		byStatus = []models.StatusCount{}
	}
	if byOwner == nil {
		byOwner = []models.OwnerSummary{}
	}

	return models.ReportSummary{
		GeneratedAt:  now,
		PeriodDays:   days,
		TotalClients: total,
		ByStatus:     byStatus,
		ByOwner:      byOwner,
		TotalCalls:   calls,
	}, nil
}

// RenderSummaryPDF renders the summary as an A4 PDF
func (s *ReportService) RenderSummaryPDF(ctx context.Context, actor Actor, days int) ([]byte, error) {
	summary, err := s.Summary(ctx, actor, days)
	if err != nil {
		return nil, err
	}
	return SummaryPDF(summary)
}

// SummaryPDF lays out a report summary. Core fonts are cp1252, so text is
// passed through the translator and Polish diacritics outside it degrade.
func SummaryPDF(summary *models.ReportSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Spectres Group CRM - Raport klientow", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Wygenerowano: %s | Okres: %d dni",
		timeutil.FormatWarsaw(summary.GeneratedAt, timeutil.DisplayLayout), summary.PeriodDays), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Status breakdown
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Klienci wg statusu", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, sc := range summary.ByStatus {
		pdf.CellFormat(140, 7, tr(string(sc.Status)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, strconv.Itoa(sc.Count), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 7, "Razem", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 7, strconv.Itoa(summary.TotalClients), "1", 1, "R", true, 0, "")
	pdf.Ln(5)

	// Per owner table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Opiekunowie", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(70, 7, "Opiekun", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Klienci", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Canvas", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Sprzedaz", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Telefony", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, o := range summary.ByOwner {
		name := o.OwnerName
		if r := []rune(name); len(r) > 35 {
			name = string(r[:32]) + "..."
		}
		pdf.CellFormat(70, 6, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(o.Clients), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(o.Canvas), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(o.Sales), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(o.Calls), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Telefony w okresie: %d", summary.TotalCalls), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
