package main

import (
	"os"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
