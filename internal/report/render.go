package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/selection"
)

// Render writes rep to w in the given format.
func Render(w io.Writer, rep Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "", FormatText:
		return renderText(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderText(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "propcast report  source=%s  seed=%d  generated=%s\n\n",
		rep.Source, rep.Seed, rep.GeneratedAt.Format("2006-01-02 15:04:05Z07:00"))

	fmt.Fprintln(tw, "BEST PROPS")
	if len(rep.BestProps) == 0 {
		fmt.Fprintln(tw, "  none")
	} else {
		fmt.Fprintln(tw, "  CATEGORY\tPLAYER\tOPP\tPICK\tODDS\tCONF\tNOTE")
		for _, rec := range rep.BestProps {
			writeLeg(tw, "  ", rec)
		}
	}

	fmt.Fprintln(tw, "\nSLIPS")
	if len(rep.Slips) == 0 {
		fmt.Fprintln(tw, "  none")
	}
	for i, slip := range rep.Slips {
		fmt.Fprintf(tw, "  #%d  %s\n", i+1, strings.Join(slip.Players(), ", "))
		for _, leg := range slip.Legs {
			writeLeg(tw, "    ", leg)
		}
	}

	if len(rep.HotCold) > 0 {
		fmt.Fprintln(tw, "\nHOT & COLD")
		for _, hc := range rep.HotCold {
			writePick(tw, hc.Category, "hot", hc.Hot)
			writePick(tw, hc.Category, "cold", hc.Cold)
		}
	}
	if rep.Misses > 0 {
		fmt.Fprintf(tw, "\n%d lookup misses\n", rep.Misses)
	}
	return tw.Flush()
}

func writeLeg(w io.Writer, indent string, rec model.BetRecommendation) {
	price := "-"
	if rec.Odds != nil {
		price = formatPrice(*rec.Odds)
	}
	fmt.Fprintf(w, "%s%s\t%s\t%s\t%s %s\t%s\t%d\t%s\n", indent,
		rec.Record.Category, rec.Record.Player, rec.Record.Opponent,
		rec.Direction, formatLine(rec.Record.BestLine), price, rec.Confidence, rec.MatchupNote)
}

func writePick(w io.Writer, cat model.Category, side string, p *selection.HotColdPick) {
	if p == nil {
		fmt.Fprintf(w, "  %s\t%s\t-\n", cat, side)
		return
	}
	fmt.Fprintf(w, "  %s\t%s\t%s\t%s %s\tL10 %s\t%+.1f\n",
		cat, side, p.Player, p.Direction, formatLine(p.Line), formatLine(p.L10), p.Diff)
}

// formatLine renders a line with one decimal digit, e.g. 26.5.
func formatLine(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// formatPrice renders American odds with an explicit plus on underdogs.
func formatPrice(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
