package assistant

import (
	"regexp"
	"strings"
)

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(hi|hello|hey|greetings|howdy)\b`),
	regexp.MustCompile(`(?i)\bgood\s+(morning|afternoon|evening|day)\b`),
	regexp.MustCompile(`(?i)\b(what's up|sup|yo|hiya)\b`),
	regexp.MustCompile(`(?i)^(hi|hello|hey)[\s\W]*$`),
}

// Greetings are the canned replies for a greeting; one is picked at random.
var Greetings = []string{
	"Hello! How can I help you with waste management today?",
	"Hi there! Ask me anything about recycling or waste disposal.",
	"Hey! What waste management questions do you have today?",
	"Greetings! I'm here to help with your waste management questions.",
}

// IsGreeting reports whether text contains a greeting word or phrase.
func IsGreeting(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range greetingPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
