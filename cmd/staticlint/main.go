// Package main реализует multichecker для статического анализа кода проекта.
//
// Запуск:
//
//	go run cmd/staticlint/main.go ./...
//
// Состав: стандартные анализаторы golang.org/x/tools (printf, shadow,
// structtag, unusedresult), все SA-анализаторы staticcheck.io и
// собственный анализатор nobareclient.
//
// Анализатор nobareclient запрещает http.Get/http.Post и обращения к
// http.DefaultClient вне пакета fetcher: у DefaultClient нет таймаута,
// а все скачивания обязаны идти через ограниченный по времени клиент.
package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/staticcheck"
)

// noBareClientAnalyzer запрещает сетевые вызовы без таймаута
var noBareClientAnalyzer = &analysis.Analyzer{
	Name: "nobareclient",
	Doc:  "запрещает http.Get/http.Post и http.DefaultClient вне пакета fetcher",
	Run:  runNoBareClient,
}

func runNoBareClient(pass *analysis.Pass) (interface{}, error) {
	// Пакету fetcher клиент с таймаутом собирать можно
	if pass.Pkg.Name() == "fetcher" {
		return nil, nil
	}

	for _, file := range pass.Files {
		// Тестовые файлы не проверяем
		filename := pass.Fset.Position(file.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			ident, ok := sel.X.(*ast.Ident)
			if !ok || ident.Name != "http" {
				return true
			}

			switch sel.Sel.Name {
			case "Get", "Post", "PostForm", "Head":
				pass.Reportf(sel.Pos(),
					"используйте http.Client с таймаутом вместо http.%s", sel.Sel.Name)
			case "DefaultClient":
				pass.Reportf(sel.Pos(),
					"http.DefaultClient без таймаута запрещён")
			}
			return true
		})
	}

	return nil, nil
}

func main() {
	checks := []*analysis.Analyzer{
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unusedresult.Analyzer,
		noBareClientAnalyzer,
	}

	// Все SA анализаторы из staticcheck
	for _, v := range staticcheck.Analyzers {
		checks = append(checks, v.Analyzer)
	}

	multichecker.Main(checks...)
}
