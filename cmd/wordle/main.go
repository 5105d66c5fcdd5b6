package main

import (
	"github.com/ardley/wordle-server/internal/cli"
)

func main() {
	cli.Execute()
}
