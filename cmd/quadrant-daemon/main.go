package main

import (
	"github.com/avelasquez/quadrant-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
