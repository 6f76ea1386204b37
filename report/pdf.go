// pdf.go - printable A4 settlement statement via gofpdf.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/seafix/laytime-engine/laytime"
)

// BuildPDF renders the settlement statement as a single-page A4 PDF.
func BuildPDF(s Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Laytime Statement")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Dossier: %s", s.DossierName))
	pdf.Ln(5)
	if s.Port != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Port: %s", s.Port))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Laytime commenced: %s", s.Terms.Commencement.Format(stampLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Terms: %s / %s", s.Terms.WeekendTerm, s.Terms.HolidayUsageTerm))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Allowance: %s h", s.Result.AllowedHours.StringFixed(2)))
	pdf.Ln(8)

	// Interval table
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(32, 6, "From", "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 6, "To", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Event", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Kind", "1", 0, "C", false, 0, "")
	pdf.CellFormat(16, 6, "Excl", "1", 0, "C", false, 0, "")
	pdf.CellFormat(14, 6, "%", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Counted h", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, iv := range s.Result.Intervals {
		excl := "-"
		if iv.CalendarExcluded {
			excl = "yes"
		}
		pdf.CellFormat(32, 6, iv.From.Format(stampLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, iv.To.Format(stampLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, iv.EventID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, string(iv.Kind), "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, 6, excl, "1", 0, "C", false, 0, "")
		pdf.CellFormat(14, 6, iv.Fraction.Mul(hundred).StringFixed(0), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, iv.CountedHours().StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Time used: %s h    Time allowed: %s h",
		s.Result.UsedHours.StringFixed(2), s.Result.AllowedHours.StringFixed(2)))
	pdf.Ln(5)
	if s.Result.TimeBar != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Laytime expired: %s", s.Result.TimeBar.Format(stampLayout)))
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("%s: %s (%s)",
		strings.ToUpper(string(s.Result.Outcome)), s.Result.Amount.Rounded(), describeOutcome(s.Result)))
	pdf.Ln(7)

	if s.Result.Provisional {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "PROVISIONAL - statement of facts ends before the allowance is exhausted.")
		pdf.Ln(5)
	}
	pdf.SetFont("Arial", "I", 9)
	for _, warning := range s.Result.Warnings {
		if warning.Code == laytime.WarnProvisional {
			continue
		}
		pdf.Cell(0, 5, "Note: "+warning.Message)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
