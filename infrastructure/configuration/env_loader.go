package configuration

import (
	"os"

	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile loads KEY=VALUE pairs from the given files (e.g. config.env, .env).
// Missing files are skipped. Existing env vars are not overridden.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("Failed to load env file")
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
