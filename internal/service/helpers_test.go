package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

type dayChange struct {
	UserID uuid.UUID
	Date   string
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []dayChange
}

func (n *recordingNotifier) DayChanged(userID uuid.UUID, date types.Date) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, dayChange{UserID: userID, Date: date.String()})
}

func (n *recordingNotifier) Changes() []dayChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dayChange(nil), n.changes...)
}

func mustDate(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// plannerFixture is a user with three verified foods.
type plannerFixture struct {
	db      *gorm.DB
	user    *models.User
	chicken *models.FoodItem
	rice    *models.FoodItem
	oil     *models.FoodItem
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return &plannerFixture{
		db:      db,
		user:    testhelpers.CreateUser(t, db),
		chicken: testhelpers.CreateFood(t, db, "Chicken breast", nutrition.Per100g{Calories: 165, ProteinG: 31, FatG: 3.6}),
		rice:    testhelpers.CreateFood(t, db, "White rice", nutrition.Per100g{Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3}),
		oil:     testhelpers.CreateFood(t, db, "Olive oil", nutrition.Per100g{Calories: 884, FatG: 100}),
	}
}
