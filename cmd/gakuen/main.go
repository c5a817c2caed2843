package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/gakuen/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gakuen: %v\n", err)
		os.Exit(1)
	}
}
