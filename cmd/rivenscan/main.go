package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/rivenscan/internal/cli"
	_ "github.com/ppiankov/rivenscan/internal/ocr/tesseract"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
