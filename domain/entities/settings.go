package entities

import "time"

// Settings is the run configuration scenarios are composed with
type Settings struct {
	Environment  Environment   `json:"environment"`
	Credentials  Credentials   `json:"credentials"`
	WaitTimeout  time.Duration `json:"wait_timeout"`  // Default timeout of element waits
	ArtifactsDir string        `json:"artifacts_dir"` // Screenshots of failed scenarios are written here
}
