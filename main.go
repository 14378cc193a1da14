package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"guildbot/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
