package analyzer

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer_ForbiddenCalls(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "forbiddencalls")
}

func TestAnalyzer_UnboundedHTTP(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "unboundedhttp")
}
