// Package recurring implements the recurrence detection subcommand.
package recurring

import (
	"strings"
	"time"

	"fjacquet/paypal-sync/cmd/root"
	"fjacquet/paypal-sync/internal/models"
	"fjacquet/paypal-sync/internal/recurring"

	"github.com/spf13/cobra"
)

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect recurring payments across the last 3 months",
	Long: `Analyze the exported CSV for payments recurring on the same calendar day
(weekend-adjusted) one, two, and three months back, and print each detected
series with its pattern label.`,
	Run: recurringFunc,
}

func recurringFunc(cmd *cobra.Command, args []string) {
	csvPath := root.ResolveCSVPath()
	root.Log.Infof("Detecting recurring payments in %s", csvPath)

	classifier := recurring.New()
	classifier.Synonyms = root.Synonyms()

	report := classifier.Detect(csvPath, time.Now().UTC())
	if report.Reason != "" {
		cmd.Println(report.Reason)
		return
	}

	for _, item := range report.Items {
		cmd.Println(formatFinding(item))
	}
	root.Log.Infof("Found %d recurring series", report.Count)
}

// formatFinding renders one finding the way the notifier prints it:
// label, description, payer, approximate amount, and the matched dates.
func formatFinding(item models.Finding) string {
	desc := "(no description)"
	if item.Description != nil {
		desc = *item.Description
	}

	parts := []string{item.Pattern, "— " + desc}
	if item.Payer != nil {
		parts = append(parts, "(from "+*item.Payer+")")
	}
	if item.Amount != nil && item.Currency != nil {
		parts = append(parts, "amount ~ "+*item.Amount+" "+*item.Currency)
	}
	parts = append(parts, "[dates: "+dateOrDash(item.Dates.LastMonth)+", "+
		dateOrDash(item.Dates.TwoMonthsAgo)+", "+dateOrDash(item.Dates.ThreeMonthsAgo)+"]")

	return strings.Join(parts, " ")
}

func dateOrDash(d *string) string {
	if d == nil {
		return "—"
	}
	return *d
}
