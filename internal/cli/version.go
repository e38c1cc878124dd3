package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rulesync/internal/ui"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("%s %s\n", ui.Bold("rulesync"), Version)
			fmt.Printf("  commit %s, built %s, %s\n", Commit, BuildDate, runtime.Version())
			return nil
		},
	}
}
