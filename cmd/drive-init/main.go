// drive-init verifies Google Drive receipt storage configuration: it loads
// credentials from the environment and checks the configured folder is
// reachable, so misconfiguration surfaces at setup time instead of on the
// first receipt upload.
package main

import (
	"context"
	"os"
	"time"

	"github.com/Raggahmuff1n/DamageInvoice/internal/cli"
	drivestore "github.com/Raggahmuff1n/DamageInvoice/internal/receipts/drive"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ds, err := drivestore.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Drive configuration invalid", "error", err)
		os.Exit(1)
	}
	if err := ds.CheckAccess(ctx); err != nil {
		logger.Error("Drive folder not accessible", "error", err)
		os.Exit(1)
	}
	logger.Info("Drive receipt storage is ready")
}
