package main

import (
	"os"

	"loantrack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
