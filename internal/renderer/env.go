package renderer

import (
	"os"
	"strings"
)

// JarEnv names the environment variable that selects the PlantUML jar.
const JarEnv = "PLANTUML_JAR"

// JarFromEnv returns the jar named by PLANTUML_JAR with surrounding double quotes, then
// single quotes, stripped. fallback is returned when the variable is unset or empty.
func JarFromEnv(fallback string) string {
	raw, ok := os.LookupEnv(JarEnv)
	if !ok {
		return fallback
	}
	jar := strings.Trim(strings.Trim(raw, `"`), `'`)
	if jar == "" {
		return fallback
	}
	return jar
}
