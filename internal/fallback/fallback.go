// Package fallback produces deterministic tool output without a language
// model. Every generator is pure and never touches the network.
package fallback

import (
	"fmt"
	"strings"

	"github.com/user/nextgen/internal/catalog"
)

// Generator turns submitted values into output lines.
type Generator func(v catalog.Values) []string

var generators = map[string]Generator{
	catalog.ResumeBullets:    resumeBullets,
	catalog.StudyPlanner:     studyPlanner,
	catalog.BudgetPlanner:    budgetPlanner,
	catalog.MealPlanner:      mealPlanner,
	catalog.WorkoutBuilder:   workoutBuilder,
	catalog.TripPlanner:      tripPlanner,
	catalog.MeetingNotes:     meetingNotes,
	catalog.CodeExplainer:    codeExplainer,
	catalog.CaptionGenerator: captionGenerator,
	catalog.HabitCoach:       habitCoach,
}

// Has reports whether a dedicated generator exists for id.
func Has(id string) bool {
	_, ok := generators[id]
	return ok
}

// Generate runs the generator registered for id. Unknown identifiers yield an
// empty, non-nil slice.
func Generate(id string, v catalog.Values) []string {
	gen, ok := generators[id]
	if !ok {
		return []string{}
	}
	return gen(v)
}

// ForDefinition runs the dedicated generator for def when there is one, then
// the extra generator named by def.Generator. When neither applies or the
// extra generator lacks its required values, it echoes the submitted fields
// followed by def.Guidance.
func ForDefinition(def catalog.ToolDefinition, v catalog.Values) []string {
	if gen, ok := generators[def.ID]; ok {
		return gen(v)
	}
	if gen, ok := extraGenerators[def.Generator]; ok {
		if lines := gen(v); len(lines) > 0 {
			return lines
		}
	}
	lines := []string{}
	for _, f := range def.Fields {
		if val := v.Get(f.Name); val != "" {
			lines = append(lines, f.Label+": "+val)
		}
	}
	return append(lines, def.Guidance...)
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

const maxStudySubjects = 5

const maxNotesExcerpt = 220

func resumeBullets(v catalog.Values) []string {
	task := strings.ToLower(v.Get("task"))
	return []string{
		fmt.Sprintf("Developed and executed %s strategies in role as %s.", task, v.Get("role")),
		fmt.Sprintf("Collaborated cross-functionally to streamline processes related to %s.", task),
		fmt.Sprintf("Drove measurable business value: %s.", v.Get("impact")),
	}
}

func studyPlanner(v catalog.Values) []string {
	lines := []string{
		"Exam Date: " + or(v.Get("exam_date"), "Not provided"),
		"Daily Study Hours: " + or(v.Get("hours"), "2"),
	}
	day := 0
	for _, sub := range strings.Split(v.Get("subjects"), ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		day++
		if day > maxStudySubjects {
			break
		}
		lines = append(lines, fmt.Sprintf("Day %d: %s - concept revision + 20 practice questions", day, sub))
	}
	return lines
}

func budgetPlanner(v catalog.Values) []string {
	return []string{
		"Income (monthly): " + v.Get("income"),
		"Fixed costs: " + v.Get("rent"),
		"Savings target: " + v.Get("goal"),
		"Suggested split: Needs 50%, Wants 30%, Savings/Investments 20%.",
		"Track expenses weekly and reduce non-essential costs by 10%.",
	}
}

func mealPlanner(v catalog.Values) []string {
	return []string{
		"Goal: " + v.Get("goal"),
		"Diet: " + v.Get("diet"),
		"Restrictions: " + or(v.Get("restrictions"), "None"),
		"Breakfast: Oats + fruits + protein source",
		"Lunch: Balanced plate (protein, whole grains, vegetables)",
		"Dinner: Light meal with lean protein and fiber",
	}
}

func workoutBuilder(v catalog.Values) []string {
	return []string{
		"Goal: " + v.Get("goal"),
		"Level: " + v.Get("level"),
		"Days/Week: " + or(v.Get("days"), "4"),
		"Plan: Push, Pull, Legs, Core + Cardio",
		"Progression: Increase load or reps every week.",
	}
}

func tripPlanner(v catalog.Values) []string {
	return []string{
		"Destination: " + v.Get("destination"),
		"Trip length: " + or(v.Get("days"), "3") + " days",
		"Budget style: " + v.Get("budget"),
		"Day 1: Local city tour + food market",
		"Day 2: Landmark visits + cultural activity",
		"Day 3: Shopping + relaxed departure plan",
	}
}

func meetingNotes(v catalog.Values) []string {
	notes := []rune(v.Get("notes"))
	if len(notes) > maxNotesExcerpt {
		notes = notes[:maxNotesExcerpt]
	}
	return []string{
		"Summary: Team discussed priorities, blockers, and upcoming deadlines.",
		"Key context captured: " + string(notes),
		"Action Items: Assign owners, define due dates, and share status update in next sync.",
	}
}

func codeExplainer(v catalog.Values) []string {
	return []string{
		"Language: " + v.Get("language"),
		"High-level: The code takes input, processes it step-by-step, and returns output.",
		"Key logic: Conditions/loops/functions coordinate to solve the target problem.",
		"Next step: Add comments and unit tests for maintainability.",
	}
}

func captionGenerator(v catalog.Values) []string {
	topic := v.Get("topic")
	platform := strings.ReplaceAll(v.Get("platform"), " ", "")
	tone := strings.ToLower(v.Get("tone"))
	return []string{
		fmt.Sprintf("%s is here. Big results start today. #%s #Growth", topic, platform),
		fmt.Sprintf("Built with care and launched with %s energy. Ready to try it? #NewLaunch", tone),
		fmt.Sprintf("Small changes, massive outcomes. %s for people who want progress. #LevelUp", topic),
	}
}

func habitCoach(v catalog.Values) []string {
	return []string{
		"Habit: " + v.Get("habit"),
		"Daily slot: " + v.Get("time_slot"),
		fmt.Sprintf("Obstacle plan: If %s, then do a 5-minute minimum version.", strings.ToLower(v.Get("obstacle"))),
		"Week 1: Build consistency, Week 2: Increase duration, Week 3: Track streak and reward progress.",
	}
}
