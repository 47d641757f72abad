//go:build !tinygo

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"ember/app"
	"ember/hal"
)

func main() {
	var flashPath string
	flag.StringVar(&flashPath, "flash", "", "Path to the flash image (default ember.flash).")
	flag.Parse()

	h, err := hal.NewHost(flashPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app.Run(h)
	<-app.Running()

	g, ctx := errgroup.WithContext(ctx)

	// stdin → console ISR pump. Each byte takes the same path a UART
	// receive interrupt would.
	g.Go(func() error {
		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return err
			}
			app.ConsoleISRRead(b)
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
	}
}
