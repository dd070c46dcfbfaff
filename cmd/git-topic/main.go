// git-topic is a thin alias so the tool also works as a git subcommand:
// "git topic --open cool-topic".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jeffrom/topic/config"
	"github.com/jeffrom/topic/runner"
	"github.com/jeffrom/topic/vcs/gitcli"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(-1)
	}
}

func run(rawArgs []string) error {
	cfg := config.New(nil)

	var help bool
	var list bool
	var logOp bool
	var open string
	var closeOp bool
	var update bool
	var repo string

	flags := pflag.NewFlagSet("git-topic", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&list, "list", "l", false, "list open topic branches")
	flags.BoolVarP(&logOp, "log", "L", false, "show topics merged into master")
	flags.StringVarP(&open, "open", "o", "", "open a new topic branch `name`")
	flags.BoolVarP(&closeOp, "close", "c", false, "close the current topic branch into master")
	flags.BoolVarP(&update, "update", "u", false, "update the current topic branch from master")
	flags.StringVarP(&cfg.Remote, "remote", "r", cfg.Remote, "use remote `alias`")
	flags.BoolVar(&cfg.Offline, "offline", false, "skip fetching and pushing")
	flags.StringVar(&repo, "repo", "", "operate on the repository at `path`")
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "echo git commands as they run")
	flags.BoolVarP(&cfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print as little as necessary")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}

	if help {
		cfg.Printf("%s [flags]\n\nFLAGS\n%s", os.Args[0], flags.FlagUsages())
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.OpenDebugLog()

	rnr := runner.New(cfg, gitcli.New(cfg, repo))
	ctx := context.Background()

	switch {
	case open != "":
		return rnr.Open(ctx, open)
	case closeOp:
		return rnr.Close(ctx)
	case update:
		return rnr.Update(ctx)
	case logOp:
		commits, err := rnr.Log(ctx, 0)
		if err != nil {
			return err
		}
		return rnr.WriteLog(cfg.Term.Stdout, commits)
	default:
		branches, err := rnr.List(ctx)
		if err != nil {
			return err
		}
		return rnr.WriteBranches(cfg.Term.Stdout, branches)
	}
}
