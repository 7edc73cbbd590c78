package common

import "regexp"

// URL pattern to detect links in free text
var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ContainsLink reports whether the text contains at least one URL
func ContainsLink(text string) bool {
	return urlPattern.MatchString(text)
}
