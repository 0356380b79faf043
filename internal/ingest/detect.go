// Package ingest cubre la frontera de ingesta: deteccion de plataforma,
// transporte de fetch y el parser que estructura el contenido scrapeado.
package ingest

import (
	"regexp"

	"career-pilot/internal/domain"
)

var platformPatterns = []struct {
	platform string
	pattern  *regexp.Regexp
}{
	{domain.PlatformLinkedIn, regexp.MustCompile(`linkedin\.com/in/`)},
	{domain.PlatformGitHub, regexp.MustCompile(`github\.com/`)},
	{domain.PlatformVelog, regexp.MustCompile(`velog\.io/@`)},
	{domain.PlatformTistory, regexp.MustCompile(`\.tistory\.com`)},
}

// DetectPlatform clasifica una URL en una plataforma conocida; cualquier
// otra cae en "other".
func DetectPlatform(url string) string {
	for _, p := range platformPatterns {
		if p.pattern.MatchString(url) {
			return p.platform
		}
	}
	return domain.PlatformOther
}
