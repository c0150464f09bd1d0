package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// StatementService renders a payout batch as a PDF earnings statement:
// one line per cleaner with gross, processor fees and net.
type StatementService struct {
	payout      *PayoutService
	cleanerRepo repositories.CleanerRepository
	log         logger.Logger
}

func NewStatementService(
	payout *PayoutService,
	cleanerRepo repositories.CleanerRepository,
) *StatementService {
	return &StatementService{
		payout:      payout,
		cleanerRepo: cleanerRepo,
		log:         logger.New("statementService"),
	}
}

func (s *StatementService) GenerateBatchStatement(ctx context.Context, batchID uuid.UUID) ([]byte, error) {
	log := s.log.Function("GenerateBatchStatement")

	detail, err := s.payout.GetPayoutBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Cleaner Payout Statement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Batch %s", detail.Batch.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Period %s to %s",
		formatStatementDate(detail.Batch.PeriodStart),
		formatStatementDate(detail.Batch.PeriodEnd.AddDate(0, 0, -1))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", detail.Batch.Status), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Cleaner", "Jobs", "Gross", "Fees", "Net"}
	colWidths := []float64{80, 20, 27, 27, 27}
	drawStatementRow(pdf, headers, colWidths, true)

	for _, payout := range detail.Payouts {
		name := payout.CleanerID.String()
		cleaner, err := s.cleanerRepo.GetByID(ctx, payout.CleanerID)
		if err != nil {
			return nil, err
		}
		if cleaner != nil {
			name = cleaner.FullName()
		}

		drawStatementRow(pdf, []string{
			name,
			fmt.Sprintf("%d", payout.JobCount),
			FormatPrice(payout.GrossCents),
			FormatPrice(payout.FeesCents),
			FormatPrice(payout.NetCents),
		}, colWidths, false)
	}

	drawStatementRow(pdf, []string{
		"Total",
		fmt.Sprintf("%d", detail.Batch.TotalJobs),
		FormatPrice(detail.Batch.TotalGrossCents),
		FormatPrice(detail.Batch.TotalFeesCents),
		FormatPrice(detail.Batch.TotalNetCents),
	}, colWidths, true)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, log.Err("failed to render payout statement", err, "batchID", batchID)
	}

	return buf.Bytes(), nil
}

func drawStatementRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatStatementDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
