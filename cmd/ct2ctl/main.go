package main

import (
	"fmt"
	"os"

	"ct2d/internal/ct2ctl"
)

func main() {
	if err := ct2ctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
