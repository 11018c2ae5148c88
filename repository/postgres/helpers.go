package postgres

import "strings"

func clampName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "default"
	}
	if len(name) > 64 {
		return name[:64]
	}
	return name
}
