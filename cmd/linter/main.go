// Command linter runs the project analyzer.
//
//	go run ./cmd/linter ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/MikhailRaia/shortify/cmd/linter/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
