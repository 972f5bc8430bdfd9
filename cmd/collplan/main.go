// Command collplan prints the capacity plans of collgo containers: growth
// sequences, hash map rebuild schedules and array growth on a chosen
// allocator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
