package Services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"TaskTracker/Models"
	"TaskTracker/apperrors"
)

// DateLayout is the yyyy-MM-dd form accepted by the start-date query.
const DateLayout = "2006-01-02"

type TaskService struct {
	DB        *gorm.DB
	Validator *Validator
}

func NewTaskService(db *gorm.DB, validator *Validator) *TaskService {
	return &TaskService{DB: db, Validator: validator}
}

// Add creates a task for the employee. New tasks always start PENDING.
func (s *TaskService) Add(ctx context.Context, employeeID uint, req Models.TaskRequest) (*Models.Task, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	task := Models.Task{
		Description:   req.Description,
		Status:        Models.TaskStatusPending,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		EmployeeID:    employeeID,
	}
	if err := s.DB.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, apperrors.NewDatabase("create task", err)
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID uint) (*Models.Task, error) {
	var task Models.Task
	err := s.DB.WithContext(ctx).First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("task", taskID)
	}
	if err != nil {
		return nil, apperrors.NewDatabase("get task", err)
	}
	return &task, nil
}

func (s *TaskService) ListAll(ctx context.Context) ([]Models.Task, error) {
	return s.find(ctx, "list tasks", s.DB)
}

func (s *TaskService) ListByEmployee(ctx context.Context, employeeID uint) ([]Models.Task, error) {
	return s.find(ctx, "list employee tasks", s.DB.Where("employee_id = ?", employeeID))
}

// ListByStatus filters the employee's tasks by exact status text.
func (s *TaskService) ListByStatus(ctx context.Context, employeeID uint, status string) ([]Models.Task, error) {
	return s.find(ctx, "list tasks by status",
		s.DB.Where("employee_id = ? AND status = ?", employeeID, status))
}

// ListByStartDate returns the employee's tasks starting between 00:00:00 and
// 23:59:59 (inclusive) of the given yyyy-MM-dd day.
func (s *TaskService) ListByStartDate(ctx context.Context, employeeID uint, date string) ([]Models.Task, error) {
	from, to, err := DayWindow(date)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, "list tasks by start date",
		s.DB.Where("employee_id = ? AND start_date_time BETWEEN ? AND ?", employeeID, from, to))
}

// ListOverdue returns PENDING tasks whose end time is before now.
// Stored times are UTC, so now is converted before comparing.
func (s *TaskService) ListOverdue(ctx context.Context, now time.Time) ([]Models.Task, error) {
	return s.find(ctx, "list overdue tasks",
		s.DB.Where("status = ? AND end_date_time IS NOT NULL AND end_date_time < ?",
			Models.TaskStatusPending, Models.NewLocalDateTime(now.UTC())))
}

// Update replaces description, status, start and end of the task.
func (s *TaskService) Update(ctx context.Context, taskID uint, req Models.TaskRequest) (*Models.Task, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Description = req.Description
	task.Status = req.Status
	task.StartDateTime = req.StartDateTime
	task.EndDateTime = req.EndDateTime
	if err := s.DB.WithContext(ctx).Save(task).Error; err != nil {
		return nil, apperrors.NewDatabase("update task", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	result := s.DB.WithContext(ctx).Delete(&Models.Task{}, taskID)
	if result.Error != nil {
		return apperrors.NewDatabase("delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("task", taskID)
	}
	return nil
}

// DayWindow expands a yyyy-MM-dd date to its first and last whole second.
func DayWindow(date string) (Models.LocalDateTime, Models.LocalDateTime, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return Models.LocalDateTime{}, Models.LocalDateTime{},
			apperrors.NewValidation("date must be in yyyy-MM-dd format", err)
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	return Models.NewLocalDateTime(from), Models.NewLocalDateTime(to), nil
}

func (s *TaskService) find(ctx context.Context, operation string, query *gorm.DB) ([]Models.Task, error) {
	tasks := []Models.Task{}
	if err := query.WithContext(ctx).Order("start_date_time").Order("id").Find(&tasks).Error; err != nil {
		return nil, apperrors.NewDatabase(operation, err)
	}
	return tasks, nil
}

func (s *TaskService) ensureEmployee(ctx context.Context, employeeID uint) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&Models.Employee{}).Where("id = ?", employeeID).Count(&count).Error; err != nil {
		return apperrors.NewDatabase("find employee", err)
	}
	if count == 0 {
		return apperrors.NewNotFound("employee", employeeID)
	}
	return nil
}
