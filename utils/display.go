package utils

import "strings"

// NoName is shown wherever a guest did not give a name.
const NoName = "(no name)"

func GuestDisplayName(name *string) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return NoName
	}
	return *name
}
