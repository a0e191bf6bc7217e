// internal/workers/ai-conversation/template-fallback/templates.go
package templatefallback

import (
	parseuserintent "scholarship-workers/internal/workers/ai-conversation/parse-user-intent"
)

const (
	SearchReply = "I can help you find scholarships that fit your profile. " +
		"Tell me your country of citizenship, your GPA, the field you want to study and the degree level " +
		"(bachelor, master or PhD), and I will look for open scholarships that match. " +
		"If you have IELTS or TOEFL scores, include those too."

	ApplicationReply = "A strong scholarship application usually has a clear personal statement, " +
		"up-to-date academic transcripts, two or three recommendation letters and proof of language proficiency. " +
		"Start early, read each scholarship's eligibility rules carefully and submit well before the deadline. " +
		"Ask me about a specific part of your application and I will go into more detail."

	GreetingReply = "Hello! I am your scholarship assistant. " +
		"I can find scholarships that match your profile and answer questions about applications, " +
		"essays and requirements. What would you like to start with?"

	DefaultReply = "I am here to help with scholarships. " +
		"You can ask me to find scholarships for your profile, or ask about eligibility, deadlines and application tips."
)

var replies = map[parseuserintent.Category]string{
	parseuserintent.CategorySearch:      SearchReply,
	parseuserintent.CategoryApplication: ApplicationReply,
	parseuserintent.CategoryGreeting:    GreetingReply,
	parseuserintent.CategoryDefault:     DefaultReply,
}

// Generate returns the canned reply for the message's intent. It never
// consults backends or candidates and always returns text.
func Generate(message string) string {
	if reply, ok := replies[parseuserintent.Classify(message)]; ok {
		return reply
	}
	return DefaultReply
}
