package main

import (
	"context"
	"os"

	"github.com/jonesrussell/complaint-triage/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	return cmd.Execute(context.Background(), os.Args[1:])
}
