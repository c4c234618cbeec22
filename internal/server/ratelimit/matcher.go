package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the first configuration whose method and pattern
// match the request, or nil. Patterns match segment by segment, so
// "/sessions/*/answers" matches "/sessions/abc/answers" but not
// "/sessions/abc".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)
	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchSegments(splitPath(config.Pattern), segments) {
			return config
		}
	}
	return nil
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != segments[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
