// Package main is the entry point for the marquee application.
package main

import (
	"github.com/marquee-cli/marquee/cmd"
	"github.com/marquee-cli/marquee/config"
	"github.com/marquee-cli/marquee/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
