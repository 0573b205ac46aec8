package fallback

import (
	"fmt"
	"strings"

	"github.com/user/nextgen/internal/catalog"
)

// extraGenerators are selected by extra-catalog tools through their
// generator key. Each returns nothing when a required value is missing.
var extraGenerators = map[string]Generator{
	"ad-copy":       adCopy,
	"email-writer":  emailWriter,
	"keyword-ideas": keywordIdeas,
	"support-reply": supportReply,
	"exam-prep":     examPrep,
}

// HasExtra reports whether name selects an extra generator.
func HasExtra(name string) bool {
	_, ok := extraGenerators[name]
	return ok
}

// oneLine collapses runs of whitespace, including line breaks, to one space.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func adCopy(v catalog.Values) []string {
	product, audience := oneLine(v.Get("product")), oneLine(v.Get("audience"))
	if product == "" || audience == "" {
		return nil
	}
	tone := or(oneLine(v.Get("tone")), "Professional")
	return []string{
		fmt.Sprintf("Headline: %s Growth for %s with %s", tone, audience, product),
		fmt.Sprintf("Body: Use %s to remove manual work, improve decisions, and scale faster for %s. Built for teams that want clear ROI and consistent performance.", product, audience),
		"CTA: Book a 15-minute AI strategy demo",
	}
}

func emailWriter(v catalog.Values) []string {
	goal, audience, offer := oneLine(v.Get("goal")), oneLine(v.Get("audience")), oneLine(v.Get("offer"))
	if goal == "" || audience == "" || offer == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("Subject: %s for %s - quick win inside", offer, audience),
		fmt.Sprintf("Hi %s,", audience),
		fmt.Sprintf("We created this to help you %s without adding more manual steps.", goal),
		fmt.Sprintf("Offer: %s.", offer),
		"If you'd like, I can share a short plan tailored to your workflow.",
		"Best, NextGen AI",
	}
}

func keywordIdeas(v catalog.Values) []string {
	niche := oneLine(v.Get("niche"))
	if niche == "" {
		return nil
	}
	suffix := ""
	if location := oneLine(v.Get("location")); location != "" {
		suffix = " in " + location
	}
	return []string{
		fmt.Sprintf("best %s tools%s", niche, suffix),
		fmt.Sprintf("%s pricing comparison%s", niche, suffix),
		fmt.Sprintf("affordable %s services%s", niche, suffix),
		fmt.Sprintf("%s automation for small business%s", niche, suffix),
		fmt.Sprintf("top-rated %s platform%s", niche, suffix),
		fmt.Sprintf("how to choose %s software%s", niche, suffix),
	}
}

func supportReply(v catalog.Values) []string {
	issue := oneLine(v.Get("issue"))
	if issue == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("Hi %s,", or(oneLine(v.Get("customer_name")), "there")),
		"Thank you for sharing this. I understand how frustrating it can be.",
		fmt.Sprintf("Regarding: %q, our team is already checking the root cause.", issue),
		"As a next step, please share your order ID or account email so we can fix this quickly.",
		"We appreciate your patience, Support Team",
	}
}

const (
	maxSyllabusTopics  = 12
	maxPriorityTopics  = 6
	maxPracticeQueries = 10
)

// syllabusTopics splits a syllabus on line breaks and commas.
func syllabusTopics(syllabus string) []string {
	var topics []string
	for _, line := range strings.Split(syllabus, "\n") {
		for _, item := range strings.Split(line, ",") {
			if t := strings.Trim(item, " -\t\r"); t != "" {
				topics = append(topics, t)
			}
		}
	}
	if len(topics) > maxSyllabusTopics {
		topics = topics[:maxSyllabusTopics]
	}
	return topics
}

func examPrep(v catalog.Values) []string {
	subject := oneLine(v.Get("subject"))
	topics := syllabusTopics(v.Get("syllabus"))
	if subject == "" || len(topics) == 0 {
		return nil
	}
	priority := topics
	if len(priority) > maxPriorityTopics {
		priority = priority[:maxPriorityTopics]
	}

	var questions []string
	for _, t := range priority {
		questions = append(questions, fmt.Sprintf("Explain the core concept of %s with one real-world example.", t))
	}
	if len(priority) >= 2 {
		questions = append(questions, fmt.Sprintf("Compare %s and %s with key differences.", priority[0], priority[1]))
	}
	questions = append(questions, fmt.Sprintf("Write a short note on %s and common exam mistakes.", priority[len(priority)-1]))
	if len(questions) > maxPracticeQueries {
		questions = questions[:maxPracticeQueries]
	}

	dateNote := "Add exam date to get a tighter revision timeline."
	if date := oneLine(v.Get("exam_date")); date != "" {
		dateNote = fmt.Sprintf("Target exam date: %s. Prioritize revision and timed practice.", date)
	}

	lines := []string{
		"Subject: " + subject,
		dateNote,
		"Important topics: " + strings.Join(priority, ", "),
	}
	for _, q := range questions {
		lines = append(lines, "Practice: "+q)
	}
	return append(lines,
		"Mini mock Section A: 5 short-answer questions (2 marks each).",
		"Mini mock Section B: 3 medium questions (5 marks each).",
		"Mini mock Section C: 1 long-answer question (10 marks).",
		"These are high-probability practice areas based on your syllabus, not guaranteed exam questions.",
	)
}
