package credentials

import (
	"strconv"
	"strings"
)

// fallbackUsername is used when an email's local part has no usable characters
const fallbackUsername = "user"

// NormalizeUsername derives the base username from an email address: the local
// part, lowercased, with every character outside a-z and 0-9 replaced by "_"
func NormalizeUsername(email string) string {
	local := strings.TrimSpace(email)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	local = strings.ToLower(local)

	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	if strings.Trim(b.String(), "_") == "" {
		return fallbackUsername
	}
	return b.String()
}

// GenerateUsername returns the normalized username for email, appending the
// smallest integer suffix (1, 2, ...) needed to avoid a name already taken
func GenerateUsername(email string, taken func(string) bool) string {
	base := NormalizeUsername(email)
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
