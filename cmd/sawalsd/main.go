package main

import (
	"github.com/burningsawals/core/internal/app"
	"github.com/burningsawals/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
