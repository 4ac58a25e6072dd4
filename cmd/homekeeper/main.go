package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nhle/homekeeper/internal/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
