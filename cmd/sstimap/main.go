package main

import (
	"os"
	"os/signal"

	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/internal/runner"
	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/log"
	"github.com/sstimap/sstimap/pkg/runtimegate"
)

func main() {
	runtimegate.Enforce()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		gologger.Print().Msgf("\n%s", runner.Farewell)
		os.Exit(0)
	}()

	options := config.ParseOptions()

	if err := runner.New(options); err != nil {
		gologger.Error().Msgf("Unexpected error: %s", err)
		gologger.Debug().Msgf("%+v", err)
		// file diagnostics, then non-zero exit
		log.Log().Fatal(err.Error())
	}
}
