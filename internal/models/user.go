package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the layout used for every persisted date
const DateLayout = "2006-01-02"

// TimeLayout is the layout used for persisted times of day
const TimeLayout = "15:04"

// Role distinguishes student accounts from teacher accounts
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Gender is stored as a single lowercase letter
type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// Valid reports whether g is a known gender code
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// House is one of the school houses competing for house points
type House string

const (
	HouseYellow House = "yellow"
	HouseRed    House = "red"
	HouseBlue   House = "blue"
	HouseGreen  House = "green"
	HouseBlack  House = "black"
)

// Houses lists every house in display order
var Houses = []House{HouseYellow, HouseRed, HouseBlue, HouseGreen, HouseBlack}

// Valid reports whether h is a known house
func (h House) Valid() bool {
	for _, known := range Houses {
		if h == known {
			return true
		}
	}
	return false
}

// UserRecord is the whole persisted state of one account.
// It is stored under its username in the user document.
type UserRecord struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`

	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
	School string `json:"school"`
	Class  string `json:"class"`
	House  *House `json:"house"`

	CreatedAt string `json:"created_at"`

	BMIHistory           []BMIEntry            `json:"bmi_history"`
	NapfaHistory         []NapfaTestRecord     `json:"napfa_history"`
	SleepHistory         []SleepEntry          `json:"sleep_history"`
	Exercises            []Exercise            `json:"exercises"`
	Goals                []Goal                `json:"goals"`
	SmartGoals           []SmartGoal           `json:"smart_goals"`
	StepsData            []StepsEntry          `json:"steps_data"`
	WorkoutVerifications []WorkoutVerification `json:"workout_verifications"`
	BMRHistory           []BMREntry            `json:"bmr_history"`
	BodyCompHistory      []BodyCompEntry       `json:"body_comp_history"`
	HydrationLog         []HydrationEntry      `json:"hydration_log"`

	TotalPoints            int      `json:"total_points"`
	Level                  string   `json:"level"`
	Badges                 []Badge  `json:"badges"`
	LoginStreak            int      `json:"login_streak"`
	LoginHistory           []string `json:"login_history"`
	HousePointsContributed float64  `json:"house_points_contributed"`

	Friends        []string      `json:"friends"`
	FriendRequests []string      `json:"friend_requests"`
	Groups         []string      `json:"groups"`
	GroupInvites   []GroupInvite `json:"group_invites"`

	// Students is the roster of usernames a teacher monitors
	Students []string `json:"students"`
}

// NewUserRecord returns a record with every history sequence initialised,
// so that a freshly registered account serialises with empty lists
func NewUserRecord(email, password, name string, role Role, createdAt time.Time) *UserRecord {
	return &UserRecord{
		Email:                email,
		Password:             password,
		Role:                 role,
		Name:                 name,
		CreatedAt:            createdAt.Format(DateLayout),
		BMIHistory:           []BMIEntry{},
		NapfaHistory:         []NapfaTestRecord{},
		SleepHistory:         []SleepEntry{},
		Exercises:            []Exercise{},
		Goals:                []Goal{},
		SmartGoals:           []SmartGoal{},
		StepsData:            []StepsEntry{},
		WorkoutVerifications: []WorkoutVerification{},
		BMRHistory:           []BMREntry{},
		BodyCompHistory:      []BodyCompEntry{},
		HydrationLog:         []HydrationEntry{},
		Badges:               []Badge{},
		LoginHistory:         []string{},
		Friends:              []string{},
		FriendRequests:       []string{},
		Groups:               []string{},
		GroupInvites:         []GroupInvite{},
		Students:             []string{},
	}
}

// Clone returns a deep copy of the record
func (u *UserRecord) Clone() (*UserRecord, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to copy user record: %w", err)
	}
	clone := &UserRecord{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("failed to copy user record: %w", err)
	}
	return clone, nil
}

// Normalize replaces missing sequences with empty ones. Records saved by older
// versions of the app may omit fields that were added later.
func (u *UserRecord) Normalize() {
	if u.BMIHistory == nil {
		u.BMIHistory = []BMIEntry{}
	}
	if u.NapfaHistory == nil {
		u.NapfaHistory = []NapfaTestRecord{}
	}
	if u.SleepHistory == nil {
		u.SleepHistory = []SleepEntry{}
	}
	if u.Exercises == nil {
		u.Exercises = []Exercise{}
	}
	if u.Goals == nil {
		u.Goals = []Goal{}
	}
	if u.SmartGoals == nil {
		u.SmartGoals = []SmartGoal{}
	}
	if u.StepsData == nil {
		u.StepsData = []StepsEntry{}
	}
	if u.WorkoutVerifications == nil {
		u.WorkoutVerifications = []WorkoutVerification{}
	}
	if u.BMRHistory == nil {
		u.BMRHistory = []BMREntry{}
	}
	if u.BodyCompHistory == nil {
		u.BodyCompHistory = []BodyCompEntry{}
	}
	if u.HydrationLog == nil {
		u.HydrationLog = []HydrationEntry{}
	}
	if u.Badges == nil {
		u.Badges = []Badge{}
	}
	if u.LoginHistory == nil {
		u.LoginHistory = []string{}
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	if u.FriendRequests == nil {
		u.FriendRequests = []string{}
	}
	if u.Groups == nil {
		u.Groups = []string{}
	}
	if u.GroupInvites == nil {
		u.GroupInvites = []GroupInvite{}
	}
	if u.Students == nil {
		u.Students = []string{}
	}
}

// HouseName returns the house as a string, or "" when unassigned
func (u *UserRecord) HouseName() string {
	if u.House == nil {
		return ""
	}
	return string(*u.House)
}

// HasFriend reports whether username is in the friend list
func (u *UserRecord) HasFriend(username string) bool {
	return containsString(u.Friends, username)
}

// InGroup reports whether the user is a member of group
func (u *UserRecord) InGroup(group string) bool {
	return containsString(u.Groups, group)
}

// HasBadge reports whether a badge with the given key was already earned.
// Records written before badges carried keys are matched by name.
func (u *UserRecord) HasBadge(key, name string) bool {
	for _, badge := range u.Badges {
		if badge.Key != "" && badge.Key == key {
			return true
		}
		if badge.Key == "" && badge.Name == name {
			return true
		}
	}
	return false
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
