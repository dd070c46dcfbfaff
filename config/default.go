package config

func GetDefault() Config {
	return Config{
		Remote:         "origin",
		MasterBranches: []string{"master", "main"},
		BranchPattern:  `^[a-z0-9][a-z0-9._/-]*$`,
		UpdateMode:     UpdateMerge,
		DocDir:         "docs/topics",
		DocTemplate: `{{ .Name }}

Describe this topic. The text of this file becomes the body of the
merge commit when the topic is closed.
`,
	}
}
