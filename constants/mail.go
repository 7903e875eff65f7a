package constants

import "strings"

// JobKeywords gate which inbox messages are worth sending to the model.
// Matching is case-insensitive substring over subject and body.
var JobKeywords = []string{
	"application", "applied", "interview", "rejection", "job", "position",
	"hiring", "candidate", "thank you for applying", "thank you for your application",
	"next steps", "your application", "we received", "received your application",
	"offer", "role", "opportunity",
}

// IsJobRelated reports whether subject or body mentions any job keyword.
func IsJobRelated(subject, body string) bool {
	s := strings.ToLower(subject)
	b := strings.ToLower(body)
	for _, kw := range JobKeywords {
		if strings.Contains(s, kw) || strings.Contains(b, kw) {
			return true
		}
	}
	return false
}

// VisionModelNames is the allow-list of model name fragments considered
// vision-capable. Matched case-insensitively as substrings against the
// backend's model list.
var VisionModelNames = []string{"llava", "bakllava", "moondream", "minicpm-v"}
