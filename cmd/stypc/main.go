// Command stypc renders style rule trees to CSS or HTML.
//
//	stypc render rules.yaml
//	stypc render --format html --root-selector :root rules.yaml
//	stypc render --tree rules.yaml
//
// Settings may be given in a configuration file stypc.yaml, looked up in the
// current directory, or named by flag --config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
