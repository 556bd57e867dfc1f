package main

import (
	"log"

	"github.com/satchelfrost/revovr/render"
)

func main() {
	app := render.NewApp(render.DefaultConfig())

	err := app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
