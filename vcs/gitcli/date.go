package gitcli

import "time"

// gitISO8601 matches git log's default date output,
// e.g. 2020-08-17 16:26:10 -0700.
const gitISO8601 = "2006-01-02 15:04:05 -0700"

func parseGitTime(s string) (time.Time, error) {
	return time.Parse(gitISO8601, s)
}
