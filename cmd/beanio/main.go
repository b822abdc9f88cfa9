// Command beanio reads and writes record files laid out by YAML mapping files.
package main

import (
	"os"

	"github.com/kevinseim/beanio-sub003/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
