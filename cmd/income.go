package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parkandride/parkride/internal/chart"
	"github.com/parkandride/parkride/internal/shell"
	"github.com/parkandride/parkride/internal/views"
)

var incomeSVG string

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Show income totals and the last 7 days (managers only)",
	Args:  cobra.NoArgs,
	RunE:  runIncome,
}

func init() {
	incomeCmd.Flags().StringVar(&incomeSVG, "svg", "", "Also write the 7-day chart as SVG to this file")
}

func loadIncome(a *app) (*views.Income, error) {
	if err := a.enter(shell.Income); err != nil {
		return nil, err
	}
	v := views.NewIncome(a.client, a.loc, a.logger)
	a.load("Loading", func() { v.Load(a.shell.Context()) })
	return v, nil
}

func runIncome(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	v, err := loadIncome(a)
	if err != nil {
		return err
	}

	var report incomeReport
	if s, ok := v.Summary(); ok {
		report.Summary = &s
	}
	report.Days = v.Series()

	if incomeSVG != "" {
		if err := writeSVGFile(incomeSVG, views.Totals(report.Days)); err != nil {
			return err
		}
	}
	if format != formatTable {
		return writeOutput(a.out, format, report, incomeTable(report))
	}
	printIncome(a.out, report.Summary, report.Days, a.loc)
	return nil
}

func incomeTable(r incomeReport) table {
	t := table{header: []string{"DATE", "DISPLAY DATE", "TOTAL", "COUNT"}}
	for _, p := range r.Days {
		t.add(p.Date, p.DisplayDate, money(p.Total), fmt.Sprint(p.Count))
	}
	return t
}

func writeSVGFile(path string, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := chart.WriteSVG(f, data, chart.Options{}); err != nil {
		f.Close()
		return fmt.Errorf("writing chart: %w", err)
	}
	return f.Close()
}
