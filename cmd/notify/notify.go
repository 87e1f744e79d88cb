// Package notify implements the same-day-last-month notification
// subcommand.
package notify

import (
	"time"

	"fjacquet/paypal-sync/cmd/root"
	"fjacquet/paypal-sync/internal/notify"

	"github.com/spf13/cobra"
)

// Cmd represents the notify command
var Cmd = &cobra.Command{
	Use:   "notify",
	Short: "Show the most recent payment made on this day last month",
	Long: `Find the latest transaction on the same calendar day last month
(weekend-adjusted) in the exported CSV and print a notification message.`,
	Run: notifyFunc,
}

func notifyFunc(cmd *cobra.Command, args []string) {
	csvPath := root.ResolveCSVPath()
	root.Log.Infof("Checking for a same-day-last-month payment in %s", csvPath)

	notifier := notify.New()
	notifier.Synonyms = root.Synonyms()

	message, _ := notifier.SameDayLastMonth(csvPath, time.Now().UTC())
	cmd.Println(message)
}
