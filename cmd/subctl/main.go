package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/subcheck/internal/subctl"
)

func main() {
	if err := subctl.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
