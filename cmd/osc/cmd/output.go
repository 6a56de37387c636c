package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/offerscout/offerscout/internal/api/client"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printOffersTable(res *domain.Result) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SOURCE\tTITLE\tCONDITION\tPRICE\tTOTAL\n")
	for i := range res.Offers {
		o := &res.Offers[i]
		tw.writef("%s\t%s\t%s\t%s\t%.2f\n",
			o.Source,
			truncate(o.Title, 50),
			o.Condition,
			o.PriceInfo,
			o.TotalCost,
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	if res.Stats.Count > 0 {
		fmt.Printf("\n%d offers, best %.2f from %s\n",
			res.Stats.Count, res.Stats.MinTotal, res.Stats.TopSource)
	}
	return nil
}

func printRatesTable(r *apiclient.RatesResponse) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Target:\t%s\n", r.Target)
	tw.writef("Fetched:\t%s\n", r.FetchedAt.Format("2006-01-02 15:04:05"))
	tw.writef("Degraded:\t%v\n", r.Degraded)
	tw.writef("Currencies:\t%d\n", len(r.Rates))
	return tw.finish()
}

func printHistoryTable(recs []domain.SearchRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("WHEN\tQUERY\tFILTER\tRESULTS\tBEST\tSOURCE\n")
	for i := range recs {
		r := &recs[i]
		tw.writef("%s\t%s\t%s\t%d\t%.2f\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(r.Query, 40),
			r.Filter,
			r.ResultCount,
			r.MinTotal,
			r.TopSource,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
