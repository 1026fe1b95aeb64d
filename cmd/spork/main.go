// Spork CLI entry point
//
// spork bootstraps an isolated git worktree for a single feature request and
// hands the terminal to an assistant CLI to start the specification work.
package main

import "github.com/spork-cli/spork/internal/presentation/cli/commands"

func main() {
	commands.Execute()
}
