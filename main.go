package main

import (
	"os"

	"github.com/CodeCraft-Studio/studio-site/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
