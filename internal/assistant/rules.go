// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "strings"

// =============================================================================
// REPLY CATEGORIES
// =============================================================================

// Category identifies which canned reply a user message selects.
type Category string

const (
	CategoryGreeting Category = "greeting"
	CategoryWeather  Category = "weather"
	CategoryHelp     Category = "help"
	CategoryImage    Category = "image"
	CategoryGeneric  Category = "generic"
)

// =============================================================================
// RULE TABLE
// =============================================================================

// Rule pairs trigger keywords with a reply. Rules are evaluated in
// order against the lowercased message; the first rule whose keyword
// appears as a substring wins.
type Rule struct {
	Keywords []string
	Category Category
	Reply    string
}

// rules is the ordered rule table. Order matters: "hi" also appears
// inside other words, so the greeting rule deliberately comes first,
// matching the reference behavior.
var rules = []Rule{
	{
		Keywords: []string{"hello", "hi"},
		Category: CategoryGreeting,
		Reply:    "Hello! I'm Parley, your chat companion. How can I help you today?",
	},
	{
		Keywords: []string{"weather"},
		Category: CategoryWeather,
		Reply:    "I'd be happy to help with weather information, though I don't have access to real-time data in this demo. Is there anything else I can assist you with?",
	},
	{
		Keywords: []string{"help"},
		Category: CategoryHelp,
		Reply:    "I'm here to help! You can ask me questions, have conversations, or even share images. What would you like to know?",
	},
	{
		Keywords: []string{"image", "picture"},
		Category: CategoryImage,
		Reply:    "I can see you've shared an image! While I can view images in this demo, I'd need more advanced capabilities to analyze them in detail.",
	},
}

// genericReply answers messages that match no rule.
const genericReply = "I understand your message. How can I assist you further?"

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify returns the reply category for a user message.
// Matching is case-insensitive substring containment, first match wins.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return CategoryGeneric
}

// ReplyFor returns the canned reply text for a category.
func ReplyFor(category Category) string {
	for _, rule := range rules {
		if rule.Category == category {
			return rule.Reply
		}
	}
	return genericReply
}

// ReplyTo classifies a message and returns its reply in one step.
func ReplyTo(text string) string {
	return ReplyFor(Classify(text))
}
