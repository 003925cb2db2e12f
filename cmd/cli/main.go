package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/staffql/internal/client/cli"
	"github.com/dmitrijs2005/staffql/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := cli.NewApp(cfg).Run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}
}
