package main

import (
	"os"

	"github.com/arthur-debert/m8db/cmd/m8db"
)

func main() {
	rootCmd := m8db.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		m8db.ReportError(os.Stderr, err, noColor)
		os.Exit(1)
	}
}
