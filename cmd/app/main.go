package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orderengine/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}
