// Package main is the entry point for reelfeed.
package main

import (
	"github.com/reelfeed/reelfeed/cmd"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/internal/cache"
	"github.com/reelfeed/reelfeed/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
