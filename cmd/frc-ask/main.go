package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/frcscout/internal/askclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := askclient.NewRoot().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("frc-ask: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
