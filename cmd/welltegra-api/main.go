// Command welltegra-api serves historical toolstring data over HTTP/JSON.
package main

import (
	"os"

	"github.com/kenmck3772/welltegra-ml-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
