package fallback

import "strings"

type chatRule struct {
	keywords []string
	reply    string
}

var chatRules = []chatRule{
	{
		keywords: []string{"exam", "syllabus"},
		reply:    "Share your subject, exam date, and syllabus topics. I will return priority units, likely question patterns, and a 7-day revision plan.",
	},
	{
		keywords: []string{"resume", "job"},
		reply:    "Send your role, key tasks, and measurable impact. I will rewrite them into ATS-friendly bullets with action verbs and metrics.",
	},
	{
		keywords: []string{"budget", "money"},
		reply:    "Give me monthly income, fixed costs, and savings target. I will generate a realistic split and cut-back recommendations.",
	},
}

// DefaultChatReply is used when no keyword rule matches.
const DefaultChatReply = "I can help with study plans, exam prep, resumes, budgets, fitness, captions, and travel planning. " +
	"Tell me your exact goal and constraints, and I will give a step-by-step plan."

// ChatReply picks a canned reply by case-insensitive keyword match on message.
// Rules are checked in order and the first match wins.
func ChatReply(message string) string {
	text := strings.ToLower(message)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.reply
			}
		}
	}
	return DefaultChatReply
}
