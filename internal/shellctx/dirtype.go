package shellctx

import (
	"os"
	"path/filepath"
	"strings"
)

// dirMarkers maps each project type to the files whose presence identifies
// it. Entries containing '*' are glob patterns. Order is reporting order.
var dirMarkers = []struct {
	Type    string
	Markers []string
}{
	{"python", []string{"setup.py", "requirements.txt", "pyproject.toml", "Pipfile"}},
	{"node", []string{"package.json", "node_modules"}},
	{"rust", []string{"Cargo.toml"}},
	{"go", []string{"go.mod", "go.sum"}},
	{"java", []string{"pom.xml", "build.gradle"}},
	{"docker", []string{"Dockerfile", "docker-compose.yml"}},
	{"terraform", []string{"main.tf", "*.tf"}},
}

// DirectoryType returns the comma-joined project types detected in dir, or
// GeneralType when none match.
func DirectoryType(dir string) string {
	var found []string
	for _, dm := range dirMarkers {
		for _, m := range dm.Markers {
			if hasMarker(dir, m) {
				found = append(found, dm.Type)
				break
			}
		}
	}
	if len(found) == 0 {
		return GeneralType
	}
	return strings.Join(found, ",")
}

func hasMarker(dir, marker string) bool {
	if strings.Contains(marker, "*") {
		matches, err := filepath.Glob(filepath.Join(dir, marker))
		return err == nil && len(matches) > 0
	}
	_, err := os.Stat(filepath.Join(dir, marker))
	return err == nil
}
