package utils

import "strings"

// ParseBool interprets the response value of a yes/no question. SharePoint
// columns may store "Yes"/"No" while the tab client writes "true"/"false".
func ParseBool(val string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "":
		return defaultValue
	case "yes", "true", "1":
		return true
	case "no", "false", "0":
		return false
	default:
		return defaultValue
	}
}
