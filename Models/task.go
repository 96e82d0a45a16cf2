package Models

import (
	"time"
)

const (
	TaskStatusPending   = "PENDING"
	TaskStatusCompleted = "COMPLETED"
)

type Task struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Description   string        `json:"description" gorm:"type:text"`
	Status        string        `json:"status" gorm:"size:50;not null;index"`
	StartDateTime LocalDateTime `json:"startDateTime" gorm:"index"`
	EndDateTime   LocalDateTime `json:"endDateTime"`
	EmployeeID    uint          `json:"employeeId" gorm:"not null;index"`
	CreatedAt     time.Time     `json:"-"`
	UpdatedAt     time.Time     `json:"-"`
}

// TaskRequest carries the client-editable task fields. Status is free text;
// PENDING and COMPLETED are the conventional values.
type TaskRequest struct {
	Description   string        `json:"description" validate:"max=5000"`
	Status        string        `json:"status" validate:"max=50"`
	StartDateTime LocalDateTime `json:"startDateTime"`
	EndDateTime   LocalDateTime `json:"endDateTime"`
}
