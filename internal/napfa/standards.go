package napfa

import "schoolfit/internal/models"

// cutoffs holds the five grade thresholds for one station, ordered from the
// grade 5 threshold down to the grade 1 threshold.
type cutoffs [5]float64

// standardsRow is the set of station thresholds for one age and gender
type standardsRow map[models.Station]cutoffs

// standards is the NAPFA grading table indexed by age and gender.
// SU, SBJ, SAR and PU are higher-is-better; SR (seconds) and RUN (2.4 km, decimal
// minutes) are lower-is-better.
var standards = map[int]map[models.Gender]standardsRow{
	12: {
		models.GenderMale: {
			models.StationSitUps:     {33, 29, 25, 21, 17},
			models.StationBroadJump:  {198, 188, 178, 168, 158},
			models.StationSitReach:   {38, 35, 32, 28, 24},
			models.StationPullUps:    {7, 6, 4, 2, 1},
			models.StationShuttleRun: {10.4, 10.7, 11.0, 11.3, 11.6},
			models.StationRun:        {11.5, 12.5, 13.5, 14.5, 15.5},
		},
		models.GenderFemale: {
			models.StationSitUps:     {29, 25, 21, 17, 13},
			models.StationBroadJump:  {172, 163, 154, 145, 136},
			models.StationSitReach:   {39, 36, 33, 30, 27},
			models.StationPullUps:    {16, 13, 10, 7, 4},
			models.StationShuttleRun: {11.0, 11.4, 11.8, 12.2, 12.6},
			models.StationRun:        {13.5, 14.5, 15.5, 16.5, 17.5},
		},
	},
	13: {
		models.GenderMale: {
			models.StationSitUps:     {35, 31, 27, 23, 19},
			models.StationBroadJump:  {208, 198, 188, 178, 168},
			models.StationSitReach:   {39, 36, 33, 29, 25},
			models.StationPullUps:    {8, 6, 5, 3, 1},
			models.StationShuttleRun: {10.2, 10.5, 10.8, 11.1, 11.4},
			models.StationRun:        {11.0, 12.0, 13.0, 14.0, 15.0},
		},
		models.GenderFemale: {
			models.StationSitUps:     {30, 26, 22, 18, 14},
			models.StationBroadJump:  {176, 167, 158, 149, 140},
			models.StationSitReach:   {40, 37, 34, 31, 28},
			models.StationPullUps:    {17, 14, 11, 8, 5},
			models.StationShuttleRun: {10.9, 11.3, 11.7, 12.1, 12.5},
			models.StationRun:        {13.25, 14.25, 15.25, 16.25, 17.25},
		},
	},
	14: {
		models.GenderMale: {
			models.StationSitUps:     {37, 33, 29, 25, 21},
			models.StationBroadJump:  {218, 208, 198, 188, 178},
			models.StationSitReach:   {41, 38, 35, 31, 27},
			models.StationPullUps:    {9, 7, 5, 3, 2},
			models.StationShuttleRun: {10.0, 10.3, 10.6, 10.9, 11.2},
			models.StationRun:        {10.5, 11.5, 12.5, 13.5, 14.5},
		},
		models.GenderFemale: {
			models.StationSitUps:     {31, 27, 23, 19, 15},
			models.StationBroadJump:  {180, 171, 162, 153, 144},
			models.StationSitReach:   {41, 38, 35, 32, 29},
			models.StationPullUps:    {18, 15, 12, 9, 6},
			models.StationShuttleRun: {10.8, 11.2, 11.6, 12.0, 12.4},
			models.StationRun:        {13.0, 14.0, 15.0, 16.0, 17.0},
		},
	},
	15: {
		models.GenderMale: {
			models.StationSitUps:     {39, 35, 31, 27, 23},
			models.StationBroadJump:  {226, 215, 204, 193, 182},
			models.StationSitReach:   {43, 40, 37, 33, 29},
			models.StationPullUps:    {10, 8, 6, 4, 2},
			models.StationShuttleRun: {9.9, 10.2, 10.5, 10.8, 11.1},
			models.StationRun:        {10.25, 11.0, 11.75, 12.5, 13.25},
		},
		models.GenderFemale: {
			models.StationSitUps:     {32, 28, 24, 20, 16},
			models.StationBroadJump:  {183, 174, 165, 156, 147},
			models.StationSitReach:   {42, 39, 36, 33, 30},
			models.StationPullUps:    {19, 16, 13, 10, 7},
			models.StationShuttleRun: {10.7, 11.1, 11.5, 11.9, 12.3},
			models.StationRun:        {12.75, 13.75, 14.75, 15.75, 16.75},
		},
	},
	16: {
		models.GenderMale: {
			models.StationSitUps:     {40, 36, 32, 28, 24},
			models.StationBroadJump:  {232, 221, 210, 199, 188},
			models.StationSitReach:   {45, 42, 39, 35, 31},
			models.StationPullUps:    {11, 9, 7, 5, 3},
			models.StationShuttleRun: {9.8, 10.1, 10.4, 10.7, 11.0},
			models.StationRun:        {10.0, 10.75, 11.5, 12.25, 13.0},
		},
		models.GenderFemale: {
			models.StationSitUps:     {33, 29, 25, 21, 17},
			models.StationBroadJump:  {185, 176, 167, 158, 149},
			models.StationSitReach:   {43, 40, 37, 34, 31},
			models.StationPullUps:    {20, 17, 14, 11, 7},
			models.StationShuttleRun: {10.7, 11.1, 11.5, 11.9, 12.3},
			models.StationRun:        {12.5, 13.5, 14.5, 15.5, 16.5},
		},
	},
	17: {
		models.GenderMale: {
			models.StationSitUps:     {41, 37, 33, 29, 25},
			models.StationBroadJump:  {236, 225, 214, 203, 192},
			models.StationSitReach:   {46, 43, 40, 36, 32},
			models.StationPullUps:    {12, 10, 8, 6, 3},
			models.StationShuttleRun: {9.7, 10.0, 10.3, 10.6, 10.9},
			models.StationRun:        {9.75, 10.5, 11.25, 12.0, 12.75},
		},
		models.GenderFemale: {
			models.StationSitUps:     {33, 29, 25, 21, 17},
			models.StationBroadJump:  {186, 177, 168, 159, 150},
			models.StationSitReach:   {44, 41, 38, 35, 32},
			models.StationPullUps:    {20, 17, 14, 11, 8},
			models.StationShuttleRun: {10.6, 11.0, 11.4, 11.8, 12.2},
			models.StationRun:        {12.5, 13.5, 14.5, 15.5, 16.5},
		},
	},
	18: {
		models.GenderMale: {
			models.StationSitUps:     {41, 37, 33, 29, 25},
			models.StationBroadJump:  {238, 227, 216, 205, 194},
			models.StationSitReach:   {47, 44, 41, 37, 33},
			models.StationPullUps:    {12, 10, 8, 6, 4},
			models.StationShuttleRun: {9.7, 10.0, 10.3, 10.6, 10.9},
			models.StationRun:        {9.75, 10.5, 11.25, 12.0, 12.75},
		},
		models.GenderFemale: {
			models.StationSitUps:     {33, 29, 25, 21, 17},
			models.StationBroadJump:  {186, 177, 168, 159, 150},
			models.StationSitReach:   {44, 41, 38, 35, 32},
			models.StationPullUps:    {20, 17, 14, 11, 8},
			models.StationShuttleRun: {10.6, 11.0, 11.4, 11.8, 12.2},
			models.StationRun:        {12.5, 13.5, 14.5, 15.5, 16.5},
		},
	},
	19: {
		models.GenderMale: {
			models.StationSitUps:     {40, 36, 32, 28, 24},
			models.StationBroadJump:  {238, 227, 216, 205, 194},
			models.StationSitReach:   {47, 44, 41, 37, 33},
			models.StationPullUps:    {12, 10, 8, 6, 4},
			models.StationShuttleRun: {9.7, 10.0, 10.3, 10.6, 10.9},
			models.StationRun:        {9.75, 10.5, 11.25, 12.0, 12.75},
		},
		models.GenderFemale: {
			models.StationSitUps:     {32, 28, 24, 20, 16},
			models.StationBroadJump:  {185, 176, 167, 158, 149},
			models.StationSitReach:   {44, 41, 38, 35, 32},
			models.StationPullUps:    {20, 17, 14, 11, 8},
			models.StationShuttleRun: {10.6, 11.0, 11.4, 11.8, 12.2},
			models.StationRun:        {12.5, 13.5, 14.5, 15.5, 16.5},
		},
	},
	20: {
		models.GenderMale: {
			models.StationSitUps:     {40, 36, 32, 28, 24},
			models.StationBroadJump:  {236, 225, 214, 203, 192},
			models.StationSitReach:   {47, 44, 41, 37, 33},
			models.StationPullUps:    {12, 10, 8, 6, 4},
			models.StationShuttleRun: {9.8, 10.1, 10.4, 10.7, 11.0},
			models.StationRun:        {10.0, 10.75, 11.5, 12.25, 13.0},
		},
		models.GenderFemale: {
			models.StationSitUps:     {32, 28, 24, 20, 16},
			models.StationBroadJump:  {185, 176, 167, 158, 149},
			models.StationSitReach:   {44, 41, 38, 35, 32},
			models.StationPullUps:    {20, 17, 14, 11, 8},
			models.StationShuttleRun: {10.6, 11.0, 11.4, 11.8, 12.2},
			models.StationRun:        {12.75, 13.75, 14.75, 15.75, 16.75},
		},
	},
}
