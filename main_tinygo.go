//go:build tinygo

package main

import (
	"ember/app"
	"ember/hal"
)

func main() {
	h := hal.New()

	app.Run(h)
	<-app.Running()

	app.PumpConsole(h)
}
