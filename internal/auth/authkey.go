package auth

import "regexp"

var authKeyPattern = regexp.MustCompile(`auth=(.*?)&`)

// ExtractAuthKey pulls the stream auth hash out of a watch page.
// The page embeds stream URLs such as "nph-zms?...&auth=abc123&connkey=...".
// An empty string means the page carried no key.
func ExtractAuthKey(page string) string {
	m := authKeyPattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return m[1]
}
