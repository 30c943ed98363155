package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"testcase-generator/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(newApp(os.Stdin, os.Stdout))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, client.ErrServerUnreachable):
		return "Backend server is not running. Please start the server first."
	case errors.Is(err, client.ErrRequestTimeout):
		return "The server took too long to answer. Try again or use a larger --timeout."
	case errors.Is(err, client.ErrNotLoggedIn):
		return "Run `tcgen login` to sign in."
	}
	return ""
}
