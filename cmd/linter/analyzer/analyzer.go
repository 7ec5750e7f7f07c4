package analyzer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const (
	analyzerName = "shortifylint"
	analyzerDoc  = "reports panic, log.Fatal and os.Exit outside main, and HTTP calls that bypass a request timeout"
)

// Analyzer checks for forbidden calls. Requests to the shortening API must go
// through a client with a timeout, so the package-level helpers of net/http
// and http.DefaultClient are reported as well.
var Analyzer = &analysis.Analyzer{
	Name:     analyzerName,
	Doc:      analyzerDoc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// unboundedHTTP lists net/http identifiers that use a client without timeout.
var unboundedHTTP = map[string]string{
	"Get":           "http.Get has no timeout, use a configured http.Client",
	"Head":          "http.Head has no timeout, use a configured http.Client",
	"Post":          "http.Post has no timeout, use a configured http.Client",
	"PostForm":      "http.PostForm has no timeout, use a configured http.Client",
	"DefaultClient": "http.DefaultClient has no timeout, use a configured http.Client",
	"NewRequest":    "http.NewRequest drops cancellation, use http.NewRequestWithContext",
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
		(*ast.SelectorExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.CallExpr:
			checkCall(pass, n)
		case *ast.SelectorExpr:
			checkHTTP(pass, n)
		}
	})

	return nil, nil
}

func checkCall(pass *analysis.Pass, callExpr *ast.CallExpr) {
	switch fn := callExpr.Fun.(type) {
	case *ast.Ident:
		if fn.Name == "panic" {
			pass.Reportf(callExpr.Pos(), "panic is forbidden")
		}
	case *ast.SelectorExpr:
		checkSelectorExpr(pass, fn, callExpr)
	}
}

func checkSelectorExpr(pass *analysis.Pass, selectorExpr *ast.SelectorExpr, callExpr *ast.CallExpr) {
	pkgPath, ok := importedPackage(pass, selectorExpr)
	if !ok {
		return
	}

	fn := selectorExpr.Sel.Name
	switch {
	case pkgPath == "log" && fn == "Fatal":
		if !isInMainFunction(pass, callExpr) {
			pass.Reportf(callExpr.Pos(), "log.Fatal is forbidden outside main function")
		}
	case pkgPath == "os" && fn == "Exit":
		if !isInMainFunction(pass, callExpr) {
			pass.Reportf(callExpr.Pos(), "os.Exit is forbidden outside main function")
		}
	}
}

func checkHTTP(pass *analysis.Pass, selectorExpr *ast.SelectorExpr) {
	pkgPath, ok := importedPackage(pass, selectorExpr)
	if !ok || pkgPath != "net/http" {
		return
	}

	if msg, forbidden := unboundedHTTP[selectorExpr.Sel.Name]; forbidden {
		pass.Reportf(selectorExpr.Pos(), "%s", msg)
	}
}

// importedPackage returns the import path when selectorExpr is pkg.Name.
func importedPackage(pass *analysis.Pass, selectorExpr *ast.SelectorExpr) (string, bool) {
	ident, ok := selectorExpr.X.(*ast.Ident)
	if !ok || pass.TypesInfo == nil {
		return "", false
	}

	obj := pass.TypesInfo.Uses[ident]
	if obj == nil {
		return "", false
	}

	pkgName, ok := obj.(*types.PkgName)
	if !ok {
		return "", false
	}

	return pkgName.Imported().Path(), true
}

func isInMainFunction(pass *analysis.Pass, node ast.Node) bool {
	for _, f := range pass.Files {
		for _, decl := range f.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok {
				if funcDecl.Name.Name == "main" && funcDecl.Recv == nil && isNodeInsideFunc(node, funcDecl) {
					return true
				}
			}
		}
	}
	return false
}

func isNodeInsideFunc(target ast.Node, funcDecl *ast.FuncDecl) bool {
	if funcDecl.Body == nil {
		return false
	}
	return funcDecl.Body.Pos() <= target.Pos() && target.End() <= funcDecl.Body.End()
}
