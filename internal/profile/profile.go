package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the immutable configuration one generator run starts from.
type Profile struct {
	// Summarization endpoint (OpenAI-compatible protocol)
	Model          string // model name, e.g. gpt-4o
	APIKey         string
	BaseURL        string // endpoint root, default: https://api.openai.com/v1
	TimeoutSeconds int    // per-request timeout (default: 120)

	// Work item service
	Organization string
	Project      string
	PAT          string // personal access token
	QueryID      string // stored query that selects the release's work items
	DevOpsURL    string // service root, default: https://dev.azure.com

	// Output
	OutputFolder    string
	SoftwareSummary string // blurb describing the software, fed to the prompt
	HTML            bool   // also write a rendered .html sibling
	RenderURL       string // remote markdown render service, empty renders locally

	Version string
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables. Values already
// set (from flags) are kept.
func (p *Profile) FromEnv() {
	if p.Model == "" {
		p.Model = getEnvOrDefault("AUTONOTES_MODEL", "gpt-4o")
	}
	if p.APIKey == "" {
		p.APIKey = getEnvOrDefault("AUTONOTES_API_KEY", "")
	}
	if p.BaseURL == "" {
		p.BaseURL = getEnvOrDefault("AUTONOTES_BASE_URL", "https://api.openai.com/v1")
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = getEnvOrDefaultInt("AUTONOTES_TIMEOUT_SECONDS", 120)
	}

	if p.Organization == "" {
		p.Organization = getEnvOrDefault("AUTONOTES_DEVOPS_ORG", "")
	}
	if p.Project == "" {
		p.Project = getEnvOrDefault("AUTONOTES_DEVOPS_PROJECT", "")
	}
	if p.PAT == "" {
		p.PAT = getEnvOrDefault("AUTONOTES_DEVOPS_PAT", "")
	}
	if p.QueryID == "" {
		p.QueryID = getEnvOrDefault("AUTONOTES_DEVOPS_QUERY", "")
	}
	if p.DevOpsURL == "" {
		p.DevOpsURL = getEnvOrDefault("AUTONOTES_DEVOPS_URL", "")
	}

	if p.OutputFolder == "" {
		p.OutputFolder = getEnvOrDefault("AUTONOTES_OUTPUT_FOLDER", "release-notes")
	}
	if p.SoftwareSummary == "" {
		p.SoftwareSummary = getEnvOrDefault("AUTONOTES_SOFTWARE_SUMMARY", "")
	}
	if p.RenderURL == "" {
		p.RenderURL = getEnvOrDefault("AUTONOTES_RENDER_URL", "")
	}
}

// IsAIEnabled returns true if an API key for the summarization endpoint is
// configured. Without one the notes are generated with an empty summary.
func (p *Profile) IsAIEnabled() bool {
	return p.APIKey != ""
}

func checkOutputFolder(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = absDir
	}

	dir = strings.TrimRight(dir, "\\/")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "unable to create output folder %s", dir)
	}
	return dir, nil
}

// Validate checks required settings and normalizes paths.
func (p *Profile) Validate() error {
	if p.Organization == "" || p.Project == "" {
		return errors.New("work item organization and project are required")
	}
	if p.PAT == "" {
		return errors.New("work item service access token is required")
	}
	if p.QueryID == "" {
		return errors.New("release work item query is required")
	}

	if !p.IsAIEnabled() {
		slog.Warn("no API key configured, release notes will have an empty summary")
	}

	outputFolder, err := checkOutputFolder(p.OutputFolder)
	if err != nil {
		return err
	}
	p.OutputFolder = outputFolder
	return nil
}
