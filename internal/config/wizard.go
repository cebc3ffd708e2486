package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectPDF returns the first PDF in the current directory, preferring the
// stock rules file.
func detectPDF() string {
	if _, err := os.Stat(DefaultPDF); err == nil {
		return DefaultPDF
	}
	matches, _ := filepath.Glob("*.pdf")
	if len(matches) > 0 {
		return matches[0]
	}
	return DefaultPDF
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to quicklinks! Let's configure your adventures.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Rules PDF.
	pdfPrompt := promptui.Prompt{
		Label:   "Rules PDF",
		Default: detectPDF(),
	}
	pdf, err := pdfPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	cfg.PDF = pdf

	// 2. Adventure directory.
	dirPrompt := promptui.Prompt{
		Label:   "Adventure directory",
		Default: cfg.AdventureDir,
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("adventure dir: %w", err)
	}
	cfg.AdventureDir = dir

	// 3. Annotator mode.
	modePrompt := promptui.Select{
		Label: "Keyword annotation",
		Items: []string{
			"sequential  - one keyword at a time (classic output)",
			"single_pass - never matches inside an inserted marker",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("annotator mode: %w", err)
	}
	cfg.Annotator.Mode = []string{"sequential", "single_pass"}[modeIdx]

	// 4. Body format.
	formatPrompt := promptui.Select{
		Label: "Section body format",
		Items: []string{"html", "markdown"},
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("body format: %w", err)
	}
	cfg.Viewer.Markdown = formatIdx == 1

	// 5. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Editor server port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 6. Listing filters.
	excludePrompt := promptui.Prompt{
		Label:   "Exclude adventures matching (comma-separated globs, blank for none)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludes := splitAndTrim(excludeStr); excludes != nil {
		cfg.Store.Exclude = excludes
	}

	if _, err := os.Stat(cfg.PDF); err != nil {
		fmt.Printf("\nNote: %s was not found; place the rules PDF there before rendering.\n", cfg.PDF)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
