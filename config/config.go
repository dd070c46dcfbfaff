package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/imdario/mergo"
)

// Update strategies for bringing a topic branch up to date with master.
const (
	UpdateMerge  = "merge"
	UpdateRebase = "rebase"
)

type Config struct {
	Debug           bool     `json:"debug,omitempty"`
	Quiet           bool     `json:"quiet,omitempty"`
	Dryrun          bool     `json:"dryrun,omitempty"`
	Offline         bool     `json:"offline,omitempty"`
	Remote          string   `json:"remote,omitempty"`
	MasterBranches  []string `json:"master_branches,omitempty"`
	BranchPattern   string   `json:"branch_pattern,omitempty"`
	UpdateMode      string   `json:"update,omitempty"`
	DocDir          string   `json:"doc_dir,omitempty"`
	DocTemplate     string   `json:"doc_template,omitempty"`
	RequiredVersion string   `json:"required_version,omitempty"`

	Term TerminalIO `json:"-"`

	branchRE *regexp.Regexp
	debugLog debugLogger
}

func New(overrides *Config) Config {
	return NewWithTerminalIO(overrides, nil)
}

func NewWithTerminalIO(overrides *Config, termio *TerminalIO) Config {
	cfg := GetDefault()
	if termio == nil {
		termio = &DefaultTermIO
	}
	cfg.Term = *termio

	if overrides != nil {
		if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
	return cfg
}

func (c Config) Validate() error {
	if c.Remote == "" {
		return fmt.Errorf("config: remote alias must not be empty")
	}
	if len(c.MasterBranches) == 0 {
		return fmt.Errorf("config: at least one master branch candidate is required")
	}
	switch c.UpdateMode {
	case UpdateMerge, UpdateRebase:
	default:
		return fmt.Errorf("config: unknown update mode %q (expected %q or %q)", c.UpdateMode, UpdateMerge, UpdateRebase)
	}
	if _, err := regexp.Compile(c.BranchPattern); err != nil {
		return fmt.Errorf("config: invalid branch_pattern: %w", err)
	}
	return nil
}

// GetBranchRE compiles BranchPattern once. Call Validate first; an invalid
// pattern panics here.
func (c *Config) GetBranchRE() *regexp.Regexp {
	if c.BranchPattern == "" {
		return nil
	}
	if c.branchRE == nil {
		c.branchRE = regexp.MustCompile(c.BranchPattern)
	}
	return c.branchRE
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Term.Stdout, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	fmt.Fprintf(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if c.debugLog != nil {
		fmt.Fprintf(c.debugLog, time.Now().Format(time.RFC3339)+" "+msg+"\n", args...)
	}
	if !c.Debug {
		return
	}
	c.Printf(msg, args...)
}
