package main

import (
	"github.com/pizzanova/order/internal/app"
	"github.com/pizzanova/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
