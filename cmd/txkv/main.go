// Command txkv is a transactional in-memory key/value shell.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/txkv/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "txkv:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
