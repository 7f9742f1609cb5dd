// Command ledgerctl runs offline maintenance against the diploma ledger using
// the same configuration as the API server.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
