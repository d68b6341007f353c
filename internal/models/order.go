package models

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pendente"
	StatusInProgress Status = "Em andamento"
	StatusPaused     Status = "Pausado"
	StatusDone       Status = "Concluído"
)

// TimeLayout is the format used for order timestamps in storage and on screen.
const TimeLayout = "02/01/2006 15:04"

// AllStatuses in display/selection order.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusPaused, StatusDone}

var ErrIllegalTransition = errors.New("illegal status transition")

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPaused, StatusDone:
		return true
	}
	return false
}

// transitions holds every legal from→to pair. Done is terminal and nothing
// ever goes back to Pendente.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusDone},
	StatusInProgress: {StatusPaused, StatusDone},
	StatusPaused:     {StatusInProgress, StatusDone},
	StatusDone:       {},
}

func (s Status) CanTransition(to Status) bool {
	if s == to {
		return true
	}
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID          int    `gorm:"primaryKey"`
	Number      string `gorm:"size:50;not null"`
	Assignee    string `gorm:"size:100;not null"`
	Status      Status `gorm:"type:varchar(20);not null"`
	StartedAt   string `gorm:"size:20"`
	CompletedAt string `gorm:"size:20"`
}

// ApplyStatus moves the order to the requested status, stamping StartedAt on
// entry into Em andamento and CompletedAt on entry into Concluído. Setting the
// current status again is a no-op and does not re-stamp anything. Both the
// leader editor and the employee buttons go through here, so the transition
// table above is the single source of truth.
func (o *Order) ApplyStatus(to Status, now time.Time) error {
	if !to.Valid() {
		return ErrIllegalTransition
	}
	if to == o.Status {
		return nil
	}
	if !o.Status.CanTransition(to) {
		return ErrIllegalTransition
	}
	switch to {
	case StatusInProgress:
		o.StartedAt = now.Format(TimeLayout)
	case StatusDone:
		o.CompletedAt = now.Format(TimeLayout)
	}
	o.Status = to
	return nil
}

// Open reports whether the order still shows up on its assignee's work list.
func (o *Order) Open() bool {
	return o.Status != StatusDone
}
