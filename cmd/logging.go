package cmd

import (
	"github.com/urfave/cli"

	"github.com/PepcyCh/simple-path-tracer/log"
)

var logger = log.New("spt")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
