package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"TaskTracker/Models"
	"TaskTracker/Services"
)

// EmployeeController handles employee-related API endpoints
type EmployeeController struct {
	Employees *Services.EmployeeService
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employees *Services.EmployeeService) *EmployeeController {
	return &EmployeeController{Employees: employees}
}

// GetEmployees retrieves all employees
func (e *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	employees, err := e.Employees.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employees)
}

// GetEmployee retrieves a single employee by ID
func (e *EmployeeController) GetEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	employee, err := e.Employees.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employee)
}

// UpdateEmployee replaces the name and email of an employee
func (e *EmployeeController) UpdateEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	var input Models.EmployeeUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	employee, err := e.Employees.Update(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(employee)
}

// DeleteEmployee deletes an employee and their tasks
func (e *EmployeeController) DeleteEmployee(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	if err := e.Employees.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Employee deleted successfully"})
}
