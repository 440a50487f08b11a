package initializers

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvVariables loads a .env file if one is present. Missing files are
// fine in production where the environment is set by the host.
func LoadEnvVariables() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			return
		}
	}
}
