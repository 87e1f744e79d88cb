// Package main provides the entry point for the paypal-sync CLI
// application.
package main

import (
	"os"

	"fjacquet/paypal-sync/cmd/notify"
	"fjacquet/paypal-sync/cmd/recurring"
	"fjacquet/paypal-sync/cmd/root"
	"fjacquet/paypal-sync/cmd/sync"
)

func main() {
	root.Init()
	root.Cmd.AddCommand(sync.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(notify.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.Error(err)
		os.Exit(1)
	}
}
