package models

// BMIEntry is one body-mass-index measurement
type BMIEntry struct {
	Date     string  `json:"date"`
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// SleepEntry is one night of sleep
type SleepEntry struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Quality  int     `json:"quality"`
	Bedtime  string  `json:"bedtime"`
	WakeTime string  `json:"wake_time"`
}

// Exercise is one logged workout
type Exercise struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration"`
	Intensity       string `json:"intensity"`
	Calories        int    `json:"calories"`
	Notes           string `json:"notes"`
	Verified        bool   `json:"verified"`
}

// Goal is a free-form fitness goal
type Goal struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Target        float64 `json:"target"`
	Unit          string  `json:"unit"`
	Deadline      string  `json:"deadline"`
	CreatedAt     string  `json:"created_at"`
	Completed     bool    `json:"completed"`
	CompletedDate string  `json:"completed_date"`
}

// SmartGoal is a goal written in the specific/measurable/achievable/relevant/time-bound form
type SmartGoal struct {
	ID            string `json:"id"`
	Specific      string `json:"specific"`
	Measurable    string `json:"measurable"`
	Achievable    string `json:"achievable"`
	Relevant      string `json:"relevant"`
	TimeBound     string `json:"time_bound"`
	CreatedAt     string `json:"created_at"`
	Completed     bool   `json:"completed"`
	CompletedDate string `json:"completed_date"`
}

// StepsEntry is a daily step count
type StepsEntry struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// Verdict is the outcome of an image-based form check
type Verdict string

const (
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
	VerdictUnknown Verdict = "unknown"
)

// WorkoutVerification records one form verification attempt
type WorkoutVerification struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	ExerciseType  string  `json:"exercise_type"`
	Verdict       Verdict `json:"verdict"`
	Feedback      string  `json:"feedback"`
	Confidence    int     `json:"confidence"`
	PointsAwarded int     `json:"points_awarded"`
}

// BMREntry is a basal metabolic rate estimate
type BMREntry struct {
	Date          string  `json:"date"`
	WeightKg      float64 `json:"weight"`
	HeightCm      float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        Gender  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	BMR           float64 `json:"bmr"`
	TDEE          float64 `json:"tdee"`
}

// BodyCompEntry is a body composition measurement
type BodyCompEntry struct {
	Date         string  `json:"date"`
	WeightKg     float64 `json:"weight"`
	BodyFatPct   float64 `json:"body_fat"`
	MuscleMassKg float64 `json:"muscle_mass"`
	FatMassKg    float64 `json:"fat_mass"`
	LeanMassKg   float64 `json:"lean_mass"`
}

// HydrationEntry is one drink
type HydrationEntry struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	AmountMl int    `json:"amount_ml"`
}

// Badge is an earned achievement. Key is the stable identity used for de-duplication;
// Name is display text.
type Badge struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Points      int    `json:"points"`
}

// GroupInvite is a pending invitation to join a group
type GroupInvite struct {
	Group string `json:"group"`
	From  string `json:"from"`
	Date  string `json:"date"`
}
