package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dsrosen6/nvdisplay/cmd"
	"github.com/dsrosen6/nvdisplay/internal/output"
)

func main() {
	if err := cmd.Run(); err != nil {
		if errors.Is(err, cmd.ErrUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		output.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}
