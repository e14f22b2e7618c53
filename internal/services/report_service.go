package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/database"
	"github.com/healthmateapp/healthmate-server/internal/domain"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// ReportService builds adherence summaries and renders them as PDF
// health reports with embedded trend charts.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// AdherenceSummary computes the adherence summary for the report window.
// A nil start resolves to the rolling window ending today.
func (s *ReportService) AdherenceSummary(ctx context.Context, userID uint, period adherence.Period, start *time.Time) (adherence.Summary, error) {
	w, err := adherence.ReportWindow(period, start, time.Now())
	if err != nil {
		return adherence.Summary{}, err
	}
	snap, err := loadSnapshot(ctx, s.db, userID, w)
	if err != nil {
		return adherence.Summary{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return adherence.BuildSummary(snap, w), nil
}

// RenderPDF builds the full health report for the window: patient info,
// adherence summary, vitals trend charts, and recent reading tables.
func (s *ReportService) RenderPDF(ctx context.Context, user *domain.User, period adherence.Period, start *time.Time) ([]byte, adherence.Summary, error) {
	w, err := adherence.ReportWindow(period, start, time.Now())
	if err != nil {
		return nil, adherence.Summary{}, err
	}
	snap, err := loadSnapshot(ctx, s.db, user.ID, w)
	if err != nil {
		return nil, adherence.Summary{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	summary := adherence.BuildSummary(snap, w)

	var bpLogs []database.BloodPressureLog
	if err := s.db.WithContext(ctx).
		Joins("JOIN blood_pressure_schedules ON blood_pressure_schedules.id = blood_pressure_logs.schedule_id").
		Where("blood_pressure_schedules.user_id = ? AND blood_pressure_logs.checked_at >= ? AND blood_pressure_logs.checked_at < ?",
			user.ID, utils.DateOnly(w.Start), utils.DateOnly(w.End).AddDate(0, 0, 1)).
		Order("blood_pressure_logs.checked_at ASC").
		Find(&bpLogs).Error; err != nil {
		return nil, adherence.Summary{}, fmt.Errorf("failed to load BP logs: %w", err)
	}

	var sugarLogs []database.SugarLog
	if err := s.db.WithContext(ctx).
		Joins("JOIN sugar_schedules ON sugar_schedules.id = sugar_logs.schedule_id").
		Where("sugar_schedules.user_id = ? AND sugar_logs.checked_at >= ? AND sugar_logs.checked_at < ?",
			user.ID, utils.DateOnly(w.Start), utils.DateOnly(w.End).AddDate(0, 0, 1)).
		Order("sugar_logs.checked_at ASC").
		Find(&sugarLogs).Error; err != nil {
		return nil, adherence.Summary{}, fmt.Errorf("failed to load sugar logs: %w", err)
	}

	pdfBytes, err := buildReportPDF(user, period, summary, bpLogs, sugarLogs)
	if err != nil {
		return nil, adherence.Summary{}, err
	}
	return pdfBytes, summary, nil
}

func renderBPChart(logs []database.BloodPressureLog) ([]byte, error) {
	if len(logs) < 2 {
		return nil, nil
	}
	xs := make([]time.Time, len(logs))
	systolic := make([]float64, len(logs))
	diastolic := make([]float64, len(logs))
	for i, l := range logs {
		xs[i] = l.CheckedAt
		systolic[i] = float64(l.Systolic)
		diastolic[i] = float64(l.Diastolic)
	}

	graph := chart.Chart{
		Title:  "Blood Pressure Trend",
		Width:  720,
		Height: 300,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Systolic", XValues: xs, YValues: systolic},
			chart.TimeSeries{Name: "Diastolic", XValues: xs, YValues: diastolic},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render BP chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSugarChart(logs []database.SugarLog) ([]byte, error) {
	var fastingX, randomX []time.Time
	var fastingY, randomY []float64
	for _, l := range logs {
		if l.Type == string(adherence.SugarFasting) {
			fastingX = append(fastingX, l.CheckedAt)
			fastingY = append(fastingY, l.Value)
		} else {
			randomX = append(randomX, l.CheckedAt)
			randomY = append(randomY, l.Value)
		}
	}

	var series []chart.Series
	if len(fastingY) >= 2 {
		series = append(series, chart.TimeSeries{Name: "Fasting", XValues: fastingX, YValues: fastingY})
	}
	if len(randomY) >= 2 {
		series = append(series, chart.TimeSeries{Name: "Random", XValues: randomX, YValues: randomY})
	}
	if len(series) == 0 {
		return nil, nil
	}

	graph := chart.Chart{
		Title:  "Blood Sugar Trend",
		Width:  720,
		Height: 300,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render sugar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderAdherenceChart(daily []adherence.DayAdherence) ([]byte, error) {
	if len(daily) < 2 {
		return nil, nil
	}
	bars := make([]chart.Value, 0, len(daily))
	for _, d := range daily {
		label := d.Date
		if t, err := time.Parse(utils.DateLayout, d.Date); err == nil {
			label = t.Format("01/02")
		}
		bars = append(bars, chart.Value{Value: d.Percent, Label: label})
	}

	graph := chart.BarChart{
		Title:    "Daily Adherence (%)",
		Width:    720,
		Height:   300,
		BarWidth: 18,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render adherence chart: %w", err)
	}
	return buf.Bytes(), nil
}

func buildReportPDF(user *domain.User, period adherence.Period, summary adherence.Summary, bpLogs []database.BloodPressureLog, sugarLogs []database.SugarLog) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "HealthMate Health Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s report, %s to %s",
		period, summary.Start.Format("Jan 2, 2006"), summary.End.Format("Jan 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Patient", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Name: %s", user.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Email: %s", user.Email), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Adherence Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Overall: %.2f%% (%d of %d scheduled)",
		summary.Percent, summary.TotalCompleted, summary.TotalScheduled), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Medication: %.2f%%   Blood pressure: %.2f%%   Sugar: %.2f%%",
		summary.Breakdown.Medication.Percent(),
		summary.Breakdown.BloodPressure.Percent(),
		summary.Breakdown.Sugar.Percent()), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	charts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"adherence_chart", func() ([]byte, error) { return renderAdherenceChart(summary.Daily) }},
		{"bp_chart", func() ([]byte, error) { return renderBPChart(bpLogs) }},
		{"sugar_chart", func() ([]byte, error) { return renderSugarChart(sugarLogs) }},
	}
	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			return nil, err
		}
		if png == nil {
			continue
		}
		pdf.RegisterImageOptionsReader(c.name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(c.name, 15, pdf.GetY(), 180, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(4)
	}

	writeBPTable(pdf, bpLogs)
	writeSugarTable(pdf, sugarLogs)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by HealthMate on %s. Not a substitute for professional medical advice.",
		time.Now().Format("Jan 2, 2006 15:04")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBPTable prints the 10 most recent readings, newest first.
func writeBPTable(pdf *fpdf.Fpdf, logs []database.BloodPressureLog) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Recent Blood Pressure Readings", "", 1, "L", false, 0, "")
	if len(logs) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "No readings in this period.", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(45, 7, "Checked At", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Systolic", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Diastolic", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Pulse", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i := len(logs) - 1; i >= 0 && i >= len(logs)-10; i-- {
		l := logs[i]
		pdf.CellFormat(45, 7, l.CheckedAt.Format("Jan 2, 2006 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(l.Systolic), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(l.Diastolic), "1", 0, "R", false, 0, "")
		pulse := "-"
		if l.Pulse > 0 {
			pulse = strconv.Itoa(l.Pulse)
		}
		pdf.CellFormat(30, 7, pulse, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

// writeSugarTable prints the 10 most recent readings, newest first.
func writeSugarTable(pdf *fpdf.Fpdf, logs []database.SugarLog) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Recent Blood Sugar Readings", "", 1, "L", false, 0, "")
	if len(logs) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "No readings in this period.", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(45, 7, "Checked At", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Value", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Type", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i := len(logs) - 1; i >= 0 && i >= len(logs)-10; i-- {
		l := logs[i]
		pdf.CellFormat(45, 7, l.CheckedAt.Format("Jan 2, 2006 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.FormatFloat(l.Value, 'f', 1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, l.Type, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}
