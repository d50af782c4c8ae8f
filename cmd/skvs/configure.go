package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kisom/skvs/internal/config"
)

// defaultConfigPath is where the wizard writes when no -c flag is given.
const defaultConfigPath = "skvs.yaml"

// runConfigure prompts for each setting and writes a YAML config file.
func runConfigure(path string) {
	if path == "" {
		path = defaultConfigPath
	}
	fmt.Printf("%s v%s — configuration\n\n", appName, version)

	reader := bufio.NewReader(os.Stdin)

	// Start from the existing file if there is one.
	existing, err := config.Load(path)
	if err != nil {
		existing, _ = config.Load("")
	}

	cfg := &config.Config{
		Addr:      promptString(reader, "Listen address", existing.Addr),
		StorePath: promptString(reader, "Store snapshot path", existing.StorePath),
		Backend:   promptChoice(reader, "Snapshot backend", existing.Backend, config.BackendFile, config.BackendSQLite),
		LogLevel:  promptChoice(reader, "Log level", existing.LogLevel, "debug", "info", "warn", "error"),
	}

	if err := saveConfig(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
	fmt.Printf("\nwrote %s\n", path)
}

// saveConfig writes cfg as YAML to path.
func saveConfig(path string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// promptString reads a line, falling back to def on empty input.
func promptString(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("  %s [%s]: ", label, def)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptChoice reads a line and keeps asking until the answer is one of
// the allowed choices. Empty input keeps the default.
func promptChoice(reader *bufio.Reader, label, def string, choices ...string) string {
	for {
		answer := promptString(reader, fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/")), def)
		for _, c := range choices {
			if answer == c {
				return answer
			}
		}
		fmt.Printf("  invalid choice %q\n", answer)
	}
}
