package service

import (
	"sort"

	"schoolfit/internal/models"
	"schoolfit/internal/repository"
)

// HouseStanding is one house's place in the competition
type HouseStanding struct {
	House    models.House `json:"house"`
	Points   float64      `json:"points"`
	Members  int          `json:"members"`
	Workouts int          `json:"workouts"`
}

// HouseService computes house standings from user records
type HouseService struct {
	users *repository.UserRepository
}

// NewHouseService creates a new house service
func NewHouseService(users *repository.UserRepository) *HouseService {
	return &HouseService{users: users}
}

// Standings returns every house, highest points first. Houses with equal
// points keep display order.
func (s *HouseService) Standings() []HouseStanding {
	byHouse := make(map[models.House]*HouseStanding, len(models.Houses))
	standings := make([]HouseStanding, len(models.Houses))
	for i, house := range models.Houses {
		standings[i].House = house
		byHouse[house] = &standings[i]
	}

	s.users.Each(func(_ string, record *models.UserRecord) bool {
		if record.House == nil {
			return true
		}
		standing, ok := byHouse[*record.House]
		if !ok {
			return true
		}
		standing.Points += record.HousePointsContributed
		standing.Members++
		standing.Workouts += len(record.Exercises)
		return true
	})

	for i := range standings {
		standings[i].Points = round(standings[i].Points, 2)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})
	return standings
}
