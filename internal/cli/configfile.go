package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ConfigPathEnv names the environment variable that overrides the config
// file location.
const ConfigPathEnv = "LINEMATCH_CONFIG_PATH"

// LoadConfigArgs reads the linematch config file and returns parsed arguments.
// Config file location: LINEMATCH_CONFIG_PATH env var, or ~/.linematch.
// Format: one flag per line (--flag=value), # comments, empty lines ignored.
// Returns nil if no config file found.
func LoadConfigArgs() []string {
	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".linematch")
	}
	args, err := ReadConfigArgs(path)
	if err != nil {
		return nil
	}
	return args
}

// ReadConfigArgs reads the arguments of the config file at path.
func ReadConfigArgs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return args, scanner.Err()
}
