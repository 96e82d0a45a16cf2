package Controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"TaskTracker/Models"
	"TaskTracker/Services"
)

// TaskController handles task-related API endpoints
type TaskController struct {
	Tasks *Services.TaskService
}

// NewTaskController creates a new TaskController
func NewTaskController(tasks *Services.TaskService) *TaskController {
	return &TaskController{Tasks: tasks}
}

// AddTask creates a PENDING task for an employee
// POST /tasks/add/:empId
func (t *TaskController) AddTask(c *fiber.Ctx) error {
	empID, ok := paramID(c, "empId")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	var input Models.TaskRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	task, err := t.Tasks.Add(c.UserContext(), empID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetAllTasks
// GET /tasks/all
func (t *TaskController) GetAllTasks(c *fiber.Ctx) error {
	tasks, err := t.Tasks.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// GetEmployeeTasks
// GET /tasks/employee/:empId
func (t *TaskController) GetEmployeeTasks(c *fiber.Ctx) error {
	empID, ok := paramID(c, "empId")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	tasks, err := t.Tasks.ListByEmployee(c.UserContext(), empID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// UpdateTask replaces all editable fields of a task
// PUT /tasks/update/:taskId
func (t *TaskController) UpdateTask(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "taskId")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var input Models.TaskRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	task, err := t.Tasks.Update(c.UserContext(), taskID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// DeleteTask
// DELETE /tasks/:taskId
func (t *TaskController) DeleteTask(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "taskId")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	if err := t.Tasks.Delete(c.UserContext(), taskID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// GetPendingTasks
// GET /tasks/pending/:empId
func (t *TaskController) GetPendingTasks(c *fiber.Ctx) error {
	return t.tasksByStatus(c, Models.TaskStatusPending)
}

// GetCompletedTasks
// GET /tasks/completed/:empId
func (t *TaskController) GetCompletedTasks(c *fiber.Ctx) error {
	return t.tasksByStatus(c, Models.TaskStatusCompleted)
}

func (t *TaskController) tasksByStatus(c *fiber.Ctx, status string) error {
	empID, ok := paramID(c, "empId")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	tasks, err := t.Tasks.ListByStatus(c.UserContext(), empID, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// GetTasksByStartDate
// GET /tasks/startdate/:date/:empId
func (t *TaskController) GetTasksByStartDate(c *fiber.Ctx) error {
	empID, ok := paramID(c, "empId")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	tasks, err := t.Tasks.ListByStartDate(c.UserContext(), empID, c.Params("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// ExportTasks streams the employee's tasks as an Excel workbook
// GET /tasks/export/:empId
func (t *TaskController) ExportTasks(c *fiber.Ctx) error {
	empID, ok := paramID(c, "empId")
	if !ok {
		return badRequest(c, "Invalid employee ID")
	}

	tasks, err := t.Tasks.ListByEmployee(c.UserContext(), empID)
	if err != nil {
		return respondError(c, err)
	}

	f, err := BuildTaskWorkbook(tasks)
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tasks_employee_%d.xlsx"`, empID))
	return c.Send(buf.Bytes())
}

const taskSheet = "Tasks"

// BuildTaskWorkbook lays tasks out one per row under a bold header.
func BuildTaskWorkbook(tasks []Models.Task) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", taskSheet); err != nil {
		f.Close()
		return nil, err
	}

	headers := []string{"ID", "Description", "Status", "Start", "End"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(taskSheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(taskSheet, "A1", "E1", style); err != nil {
		f.Close()
		return nil, err
	}

	for i, task := range tasks {
		row := i + 2
		values := []interface{}{task.ID, task.Description, task.Status, formatCellTime(task.StartDateTime), formatCellTime(task.EndDateTime)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(taskSheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(taskSheet, "B", "B", 50); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(taskSheet, "D", "E", 20); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func formatCellTime(t Models.LocalDateTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
