package main

import (
	"github.com/farm2school/order/internal/app"
	"github.com/farm2school/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
