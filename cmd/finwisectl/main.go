// Command finwisectl is the operator tool for finwise: schema migrations,
// the due-reminder sweep and one-off system notifications.
package main

import (
	"os"

	"finwise/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
