// Package model contains abstract data models.
package model

import "time"

// Commit is one parsed git log entry. For topic purposes these are usually
// the merge commits left behind on master by closed topics.
type Commit struct {
	ID             string `json:"commit"`
	Author         string
	AuthorEmail    string
	AuthorDate     time.Time
	Committer      string
	CommitterEmail string
	CommitterDate  time.Time
	Subject        string
	Body           string
}

func (c *Commit) ShortID() string {
	if len(c.ID) < 8 {
		return c.ID
	}
	return c.ID[:8]
}

// Branch is a topic branch as derived from git output on a single run.
// Nothing here is persisted; the repository is the source of truth.
type Branch struct {
	Name    string `json:"name"`
	Commit  string `json:"commit"`
	Ahead   int    `json:"ahead"`
	Behind  int    `json:"behind"`
	Current bool   `json:"current,omitempty"`
}

func (b *Branch) ShortCommit() string {
	if len(b.Commit) < 8 {
		return b.Commit
	}
	return b.Commit[:8]
}
