package catalog

// Tool identifiers shipped by default.
const (
	ResumeBullets    = "resume-bullets"
	StudyPlanner     = "study-planner"
	BudgetPlanner    = "budget-planner"
	MealPlanner      = "meal-planner"
	WorkoutBuilder   = "workout-builder"
	TripPlanner      = "trip-planner"
	MeetingNotes     = "meeting-notes"
	CodeExplainer    = "code-explainer"
	CaptionGenerator = "caption-generator"
	HabitCoach       = "habit-coach"
)

func text(name, label, placeholder string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindText, Placeholder: placeholder}
}

func textarea(name, label, placeholder string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindTextarea, Placeholder: placeholder}
}

// DefaultTools returns the built-in tool definitions.
func DefaultTools() []ToolDefinition {
	return []ToolDefinition{
		{
			ID:          ResumeBullets,
			Title:       "Resume Bullet Generator",
			Description: "Turn your role details into strong resume bullet points.",
			ButtonText:  "Generate Bullets",
			Fields: []FieldSpec{
				text("role", "Role", "e.g., Sales Intern"),
				text("task", "Main Task", "e.g., Lead generation"),
				text("impact", "Impact", "e.g., Increased qualified leads by 20%"),
			},
		},
		{
			ID:          StudyPlanner,
			Title:       "Study Planner",
			Description: "Create a focused weekly plan from subjects and available hours.",
			ButtonText:  "Generate Plan",
			Fields: []FieldSpec{
				text("subjects", "Subjects", "e.g., Math, Physics, Chemistry"),
				text("hours", "Hours per Day", "e.g., 3"),
				text("exam_date", "Exam Date", "e.g., 2026-06-10"),
			},
		},
		{
			ID:          BudgetPlanner,
			Title:       "Budget Planner",
			Description: "Get a simple monthly budget allocation plan.",
			ButtonText:  "Build Budget",
			Fields: []FieldSpec{
				text("income", "Monthly Income", "e.g., 50000"),
				text("rent", "Rent/Fixed Cost", "e.g., 15000"),
				text("goal", "Savings Goal", "e.g., 10000"),
			},
		},
		{
			ID:          MealPlanner,
			Title:       "Meal Planner",
			Description: "Generate a simple daily meal plan for your goal.",
			ButtonText:  "Generate Meals",
			Fields: []FieldSpec{
				text("goal", "Goal", "e.g., Weight loss"),
				text("diet", "Diet Preference", "e.g., Vegetarian"),
				text("restrictions", "Restrictions", "e.g., No dairy"),
			},
		},
		{
			ID:          WorkoutBuilder,
			Title:       "Workout Builder",
			Description: "Create a weekly workout split from your fitness target.",
			ButtonText:  "Build Workout",
			Fields: []FieldSpec{
				text("goal", "Fitness Goal", "e.g., Gain muscle"),
				text("days", "Days per Week", "e.g., 4"),
				text("level", "Experience Level", "e.g., Beginner"),
			},
		},
		{
			ID:          TripPlanner,
			Title:       "Trip Itinerary Planner",
			Description: "Build a day-wise travel itinerary quickly.",
			ButtonText:  "Generate Itinerary",
			Fields: []FieldSpec{
				text("destination", "Destination", "e.g., Jaipur"),
				text("days", "Number of Days", "e.g., 3"),
				text("budget", "Budget Type", "e.g., Medium"),
			},
		},
		{
			ID:          MeetingNotes,
			Title:       "Meeting Notes Organizer",
			Description: "Convert rough notes into clear summary and action items.",
			ButtonText:  "Organize Notes",
			Fields: []FieldSpec{
				textarea("notes", "Raw Meeting Notes", "Paste notes here..."),
			},
		},
		{
			ID:          CodeExplainer,
			Title:       "Code Explainer",
			Description: "Get a plain-English explanation for code snippets.",
			ButtonText:  "Explain Code",
			Fields: []FieldSpec{
				text("language", "Language", "e.g., Python"),
				textarea("code", "Code Snippet", "Paste code here..."),
			},
		},
		{
			ID:          CaptionGenerator,
			Title:       "Social Caption Generator",
			Description: "Create social media captions with hashtags.",
			ButtonText:  "Generate Captions",
			Fields: []FieldSpec{
				text("topic", "Topic", "e.g., New product launch"),
				text("platform", "Platform", "e.g., Instagram"),
				text("tone", "Tone", "e.g., Energetic"),
			},
		},
		{
			ID:          HabitCoach,
			Title:       "Habit Coach",
			Description: "Build a practical 21-day habit plan.",
			ButtonText:  "Create Habit Plan",
			Fields: []FieldSpec{
				text("habit", "Habit", "e.g., Morning reading"),
				text("time_slot", "Preferred Time", "e.g., 7:00 AM"),
				text("obstacle", "Main Obstacle", "e.g., Phone distractions"),
			},
		},
	}
}

// Default returns a registry holding the built-in tools.
func Default() *Registry {
	r, err := New(DefaultTools()...)
	if err != nil {
		panic("catalog: invalid built-in tools: " + err.Error())
	}
	return r
}
