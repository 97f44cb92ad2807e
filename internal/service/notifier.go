package service

import (
	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// Notifier is told about every write that changes what a day looks like.
type Notifier interface {
	DayChanged(userID uuid.UUID, date types.Date)
}

type nopNotifier struct{}

func (nopNotifier) DayChanged(uuid.UUID, types.Date) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
