package models

// Station identifies one of the six NAPFA test stations
type Station string

const (
	StationSitUps     Station = "SU"
	StationBroadJump  Station = "SBJ"
	StationSitReach   Station = "SAR"
	StationPullUps    Station = "PU"
	StationShuttleRun Station = "SR"
	StationRun        Station = "RUN"
)

// Stations lists the stations in test order
var Stations = []Station{
	StationSitUps,
	StationBroadJump,
	StationSitReach,
	StationPullUps,
	StationShuttleRun,
	StationRun,
}

// Medal is the award tier of a NAPFA test
type Medal string

const (
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
	MedalNone   Medal = "No Medal"
)

// NapfaScores holds the raw measurement for each station.
// SR is in seconds and RUN in decimal minutes.
type NapfaScores struct {
	SitUps     float64 `json:"SU"`
	BroadJump  float64 `json:"SBJ"`
	SitReach   float64 `json:"SAR"`
	PullUps    float64 `json:"PU"`
	ShuttleRun float64 `json:"SR"`
	Run        float64 `json:"RUN"`
}

// Get returns the score recorded for station
func (s NapfaScores) Get(station Station) float64 {
	switch station {
	case StationSitUps:
		return s.SitUps
	case StationBroadJump:
		return s.BroadJump
	case StationSitReach:
		return s.SitReach
	case StationPullUps:
		return s.PullUps
	case StationShuttleRun:
		return s.ShuttleRun
	case StationRun:
		return s.Run
	}
	return 0
}

// NapfaGrades holds the 0-5 grade for each station
type NapfaGrades struct {
	SitUps     int `json:"SU"`
	BroadJump  int `json:"SBJ"`
	SitReach   int `json:"SAR"`
	PullUps    int `json:"PU"`
	ShuttleRun int `json:"SR"`
	Run        int `json:"RUN"`
}

// Get returns the grade for station
func (g NapfaGrades) Get(station Station) int {
	switch station {
	case StationSitUps:
		return g.SitUps
	case StationBroadJump:
		return g.BroadJump
	case StationSitReach:
		return g.SitReach
	case StationPullUps:
		return g.PullUps
	case StationShuttleRun:
		return g.ShuttleRun
	case StationRun:
		return g.Run
	}
	return 0
}

// Set stores the grade for station
func (g *NapfaGrades) Set(station Station, grade int) {
	switch station {
	case StationSitUps:
		g.SitUps = grade
	case StationBroadJump:
		g.BroadJump = grade
	case StationSitReach:
		g.SitReach = grade
	case StationPullUps:
		g.PullUps = grade
	case StationShuttleRun:
		g.ShuttleRun = grade
	case StationRun:
		g.Run = grade
	}
}

// Sum adds up the six grades
func (g NapfaGrades) Sum() int {
	total := 0
	for _, station := range Stations {
		total += g.Get(station)
	}
	return total
}

// Min returns the lowest of the six grades
func (g NapfaGrades) Min() int {
	lowest := g.Get(Stations[0])
	for _, station := range Stations[1:] {
		if grade := g.Get(station); grade < lowest {
			lowest = grade
		}
	}
	return lowest
}

// NapfaTestRecord is one completed NAPFA test. Records are never modified after
// they are appended to a user's history.
type NapfaTestRecord struct {
	Date   string      `json:"date"`
	Age    int         `json:"age"`
	Gender Gender      `json:"gender"`
	Scores NapfaScores `json:"scores"`
	Grades NapfaGrades `json:"grades"`
	Total  int         `json:"total"`
	Medal  Medal       `json:"medal"`
}
