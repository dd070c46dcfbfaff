package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/spf13/pflag"

	"github.com/jeffrom/topic/config"
	"github.com/jeffrom/topic/runner"
	"github.com/jeffrom/topic/vcs/gitcli"
)

var (
	// overridden by go build -X
	Version = "dev"
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
	var version bool
	var cfgFile string
	var printConfig bool

	var list bool
	var logOp bool
	var open string
	var closeOp bool
	var update bool

	var remote string
	var repo string
	var logMax int

	flags := pflag.NewFlagSet("topic", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&list, "list", "l", false, "list open topic branches")
	flags.BoolVarP(&logOp, "log", "L", false, "show topics merged into master")
	flags.StringVarP(&open, "open", "o", "", "open a new topic branch `name`")
	flags.BoolVarP(&closeOp, "close", "c", false, "close the current topic branch into master")
	flags.BoolVarP(&update, "update", "u", false, "update the current topic branch from master")
	flags.StringVarP(&remote, "remote", "r", cfg.Remote, "use remote `alias`")
	flags.BoolVar(&cfg.Offline, "offline", false, "skip fetching and pushing")
	flags.StringVar(&repo, "repo", "", "operate on the repository at `path`")
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "echo git commands as they run")
	flags.BoolVarP(&cfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.IntVar(&logMax, "max-entries", 0, "limit --log to `n` entries")
	flags.StringVar(&cfgFile, "config", "", "specify config `file`")
	flags.BoolVar(&printConfig, "print-config", false, "Print configuration and exit")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}
	args := flags.Args()[1:]
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %q", args[0])
	}

	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", Version)
		return nil
	}

	topicYAML, err := readTopicYAML(cfgFile, repo)
	if err != nil {
		return err
	}
	if topicYAML != nil {
		if err := mergo.Merge(&cfg, topicYAML, mergo.WithOverride); err != nil {
			return err
		}
	}
	// flags beat topic.yaml
	if fl := flags.Lookup("remote"); fl != nil && fl.Changed {
		cfg.Remote = remote
	}

	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return err
	}
	cfg.OpenDebugLog()
	if cfg.Debug {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		cfg.Debugf("config: %s", string(b))
	}
	// done setting up config

	ops := 0
	for _, set := range []bool{list, logOp, open != "", closeOp, update} {
		if set {
			ops++
		}
	}
	if ops > 1 {
		return errors.New("only one of --list, --log, --open, --close, --update may be given")
	}

	git := gitcli.New(cfg, repo)
	rnr := runner.New(cfg, git)
	ctx := context.Background()

	switch {
	case open != "":
		return rnr.Open(ctx, open)
	case closeOp:
		return rnr.Close(ctx)
	case update:
		return rnr.Update(ctx)
	case logOp:
		commits, err := rnr.Log(ctx, logMax)
		if err != nil {
			return err
		}
		return rnr.WriteLog(cfg.Term.Stdout, commits)
	default:
		branches, err := rnr.List(ctx)
		if err != nil {
			return err
		}
		if len(branches) == 0 {
			cfg.Printf("No topics are open.")
			return nil
		}
		return rnr.WriteBranches(cfg.Term.Stdout, branches)
	}
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`%s [flags]

A utility for working on topic branches off a shared master.

FLAGS
%s
EXAMPLES

# list open topics with their divergence from master
$ topic

# start a new topic branch
$ topic --open cool-topic

# pull master's latest commits into the current topic
$ topic --update

# merge the current topic back into master and clean up
$ topic --close

# see what was merged, newest first
$ topic --log
`, os.Args[0], flags.FlagUsages())
}

func readTopicYAML(p, repo string) (*config.Config, error) {
	if p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	wd := repo
	if wd == "" {
		var err error
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	wd, err := filepath.Abs(wd)
	if err != nil {
		return nil, err
	}

	for {
		candPath := filepath.Join(wd, "topic.yaml")
		b, err := os.ReadFile(candPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				parent := filepath.Dir(wd)
				if parent == wd {
					break
				}
				wd = parent
				continue
			}
			return nil, err
		}

		cfg := &config.Config{}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, nil
}
