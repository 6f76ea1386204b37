/*
Package report renders a settlement for print/export.

PURPOSE:
  Presentation only: consumes a SettlementResult plus the originating terms
  and produces a human-readable breakdown (per-interval contribution, used
  vs allowed time, time bar, final amount). No calculation happens here,
  and this is the ONLY place amounts are rounded to the currency minor
  unit.

RENDERERS:
  - WriteText: tab-aligned plain text for terminals and email
  - BuildPDF:  A4 PDF via gofpdf for the printable dossier
*/
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/seafix/laytime-engine/laytime"
)

const stampLayout = "2006-01-02 15:04"

var hundred = decimal.NewFromInt(100)

// Statement bundles everything a renderer needs for one dossier.
type Statement struct {
	DossierName string
	Port        string
	Terms       laytime.CharterPartyTerms
	Result      laytime.SettlementResult
}

// WriteText renders the tab-aligned plain-text breakdown.
func WriteText(w io.Writer, s Statement) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "LAYTIME STATEMENT\t%s\n", s.DossierName)
	if s.Port != "" {
		fmt.Fprintf(tw, "Port\t%s\n", s.Port)
	}
	fmt.Fprintf(tw, "Commencement\t%s\n", s.Terms.Commencement.Format(stampLayout))
	fmt.Fprintf(tw, "Terms\t%s / %s\n", s.Terms.WeekendTerm, s.Terms.HolidayUsageTerm)
	fmt.Fprintf(tw, "Allowance\t%s h\n", s.Result.AllowedHours.StringFixed(2))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "From\tTo\tEvent\tKind\tExcl\t%\tCounted h")
	for _, iv := range s.Result.Intervals {
		excl := "-"
		if iv.CalendarExcluded {
			excl = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			iv.From.Format(stampLayout), iv.To.Format(stampLayout),
			iv.EventID, iv.Kind, excl,
			iv.Fraction.Mul(hundred).StringFixed(0),
			iv.CountedHours().StringFixed(2))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Time used\t%s h\n", s.Result.UsedHours.StringFixed(2))
	fmt.Fprintf(tw, "Time allowed\t%s h\n", s.Result.AllowedHours.StringFixed(2))
	if s.Result.TimeBar != nil {
		fmt.Fprintf(tw, "Laytime expired\t%s\n", s.Result.TimeBar.Format(stampLayout))
	}
	fmt.Fprintf(tw, "Outcome\t%s\n", strings.ToUpper(string(s.Result.Outcome)))
	fmt.Fprintf(tw, "Amount\t%s\n", s.Result.Amount.Rounded())
	if s.Result.Provisional {
		fmt.Fprintf(tw, "\tPROVISIONAL - statement of facts incomplete\n")
	}
	for _, warning := range s.Result.Warnings {
		if warning.Code == laytime.WarnProvisional {
			continue // already printed above
		}
		fmt.Fprintf(tw, "Note\t%s\n", warning.Message)
	}

	return tw.Flush()
}

func describeOutcome(r laytime.SettlementResult) string {
	switch r.Outcome {
	case laytime.OutcomeDemurrage:
		return "Demurrage due to owners"
	case laytime.OutcomeDespatch:
		return "Despatch due to charterers"
	default:
		return "Laytime even - nothing due"
	}
}
