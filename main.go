package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"betting_e2e/presentation/terminal"

	"github.com/joho/godotenv"
)

func main() {
	// .env file is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	termInterface := terminal.NewTerminalInterface(os.Getenv, os.Stdout)
	if err := termInterface.Run(ctx, os.Args[1:]); err != nil {
		if terminal.IsHelp(err) {
			fmt.Println(err)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
