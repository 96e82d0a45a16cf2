package Services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"TaskTracker/Models"
	"TaskTracker/apperrors"
)

type EmployeeService struct {
	DB        *gorm.DB
	Validator *Validator
}

func NewEmployeeService(db *gorm.DB, validator *Validator) *EmployeeService {
	return &EmployeeService{DB: db, Validator: validator}
}

// List returns all employees ordered by id.
func (s *EmployeeService) List(ctx context.Context) ([]Models.Employee, error) {
	var employees []Models.Employee
	if err := s.DB.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, apperrors.NewDatabase("list employees", err)
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*Models.Employee, error) {
	var employee Models.Employee
	err := s.DB.WithContext(ctx).First(&employee, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("employee", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabase("get employee", err)
	}
	return &employee, nil
}

// Update replaces the name and email of an employee. The password is untouched.
func (s *EmployeeService) Update(ctx context.Context, id uint, req Models.EmployeeUpdateRequest) (*Models.Employee, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var taken int64
	if err := s.DB.WithContext(ctx).Model(&Models.Employee{}).
		Where("email = ? AND id <> ?", req.Email, id).
		Count(&taken).Error; err != nil {
		return nil, apperrors.NewDatabase("check employee email", err)
	}
	if taken > 0 {
		return nil, apperrors.NewAlreadyExists("email is already used by another employee")
	}

	employee.Name = req.Name
	employee.Email = req.Email
	if err := s.DB.WithContext(ctx).Save(employee).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewAlreadyExists("email is already used by another employee")
		}
		return nil, apperrors.NewDatabase("update employee", err)
	}
	return employee, nil
}

// Delete removes the employee together with all of their tasks.
func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&Models.Task{}).Error; err != nil {
			return apperrors.NewDatabase("delete employee tasks", err)
		}
		result := tx.Delete(&Models.Employee{}, id)
		if result.Error != nil {
			return apperrors.NewDatabase("delete employee", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFound("employee", id)
		}
		return nil
	})
}
