// Package topic manages short-lived topic branches on top of the git
// commandline tool: open them off master, keep them up to date, and merge
// them back when the work is done.
//
// Related packages: config, runner, model, vcs, vcs/gitcli
package topic

import "github.com/jeffrom/topic/config"

// Config holds most of the configuration variables for topic. This struct is
// intended for command-line use, so not all of its attributes are applicable
// to every operation.
//
// See "go doc github.com/jeffrom/topic/config Config" for more information.
type Config = config.Config
