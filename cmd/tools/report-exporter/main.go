// cmd/tools/report-exporter/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"loantracker/internal/common/config"
	"loantracker/internal/common/logger"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
	"loantracker/internal/service"
)

// report-exporter renders the filtered application report to a file
// without going through the HTTP server.
func main() {
	formatFlag := flag.String("format", "pdf", "Output format (pdf or excel)")
	output := flag.String("out", "", "Output file path (default applications-report.<ext>)")
	search := flag.String("search", "", "Free-text filter over applicant, status, security and amount")
	status := flag.String("status", "", "Status filter (APPLIED, APPROVED, FUNDED, DECLINED)")
	from := flag.String("from", "", "Earliest application date, YYYY-MM-DD")
	to := flag.String("to", "", "Latest application date, YYYY-MM-DD")
	sortBy := flag.String("sort", "", "Sort column (applicant, amount, security, status, application_date)")
	desc := flag.Bool("desc", false, "Sort descending")
	flag.Parse()

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	f := report.Filter{Search: *search, Status: models.Status(*status)}
	if f.Status != "" && !f.Status.IsValid() {
		fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", *status)
		os.Exit(1)
	}
	if f.From, err = parseDate(*from); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if f.To, err = parseDate(*to); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	var s report.Sort
	if *sortBy != "" {
		col, err := report.ParseColumn(*sortBy)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		s = report.Sort{Column: col, Desc: *desc}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: config load failed:", err)
		os.Exit(1)
	}

	zapLog := logger.New("warn", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx := context.Background()
	svc, cleanup, err := service.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: service init failed:", err)
		os.Exit(1)
	}
	defer cleanup()

	data, err := svc.DownloadReport(ctx, format, f, s)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: report generation failed:", err)
		os.Exit(1)
	}

	path := *output
	if path == "" {
		ext := "pdf"
		if format == export.FormatExcel {
			ext = "xlsx"
		}
		path = "applications-report." + ext
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "Error: write failed:", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}
