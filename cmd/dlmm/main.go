// =============================
// File: cmd/dlmm/main.go
// =============================
package main

import (
	"fmt"
	"os"

	"github.com/rovshanmuradov/dlmm-lp/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
