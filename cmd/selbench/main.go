// Command selbench benchmarks, profiles and runs CSS selectors against XML,
// HTML, JSON and Go source files.
//
//	selbench bench   -f page.html -s "a[href]" -n 1000
//	selbench profile -f feed.xml.gz -s "entry > title" -o cpu.pprof
//	selbench select  -f main.go "CallExpr[fun^='fmt.']"
//	selbench parse   "li:nth-child(2n+1 of .item)"
package main

import (
	"os"

	"github.com/sandrolain/goselect/internal/selbench"
)

func main() {
	if err := selbench.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
