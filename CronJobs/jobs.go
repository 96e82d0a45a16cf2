package CronJobs

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"TaskTracker/Models"
	"TaskTracker/email"
)

// OverdueLister finds PENDING tasks whose end has passed.
type OverdueLister interface {
	ListOverdue(ctx context.Context, now time.Time) ([]Models.Task, error)
}

// EmployeeGetter resolves the owner of a task.
type EmployeeGetter interface {
	Get(ctx context.Context, id uint) (*Models.Employee, error)
}

// Mailer sends a reminder email. A nil Mailer disables sending.
type Mailer interface {
	Send(message email.Message) error
}

// ReminderReport summarizes one reminder run.
type ReminderReport struct {
	OverdueTasks int
	Employees    int
	EmailsSent   int
}

// TaskReminder periodically reminds employees about overdue tasks
type TaskReminder struct {
	cronScheduler *cron.Cron
	tasks         OverdueLister
	employees     EmployeeGetter
	mailer        Mailer
	schedule      string
	jobID         cron.EntryID
	now           func() time.Time

	// one run at a time
	runMu sync.Mutex
}

// NewTaskReminder creates a reminder for the given cron schedule (with seconds).
func NewTaskReminder(tasks OverdueLister, employees EmployeeGetter, mailer Mailer, schedule string) *TaskReminder {
	return &TaskReminder{
		cronScheduler: cron.New(cron.WithSeconds()),
		tasks:         tasks,
		employees:     employees,
		mailer:        mailer,
		schedule:      schedule,
		now:           time.Now,
	}
}

// Start schedules the reminder and starts the scheduler. An empty schedule disables it.
func (r *TaskReminder) Start() error {
	if r.schedule == "" {
		log.Println("Task reminder disabled")
		return nil
	}

	var err error
	r.jobID, err = r.cronScheduler.AddFunc(r.schedule, r.runScheduled)
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	r.cronScheduler.Start()
	log.Printf("Task reminder scheduler started with schedule %q", r.schedule)
	return nil
}

// Stop terminates the scheduler and waits for a running reminder to finish.
func (r *TaskReminder) Stop() {
	if r.cronScheduler != nil {
		<-r.cronScheduler.Stop().Done()
		log.Println("Task reminder scheduler stopped")
	}
}

// UpdateSchedule changes the schedule of the reminder
// Format: "0 0 8 * * *" = At 08:00:00 AM every day
func (r *TaskReminder) UpdateSchedule(schedule string) error {
	id, err := r.cronScheduler.AddFunc(schedule, r.runScheduled)
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	r.cronScheduler.Remove(r.jobID)
	r.jobID = id
	r.schedule = schedule

	log.Printf("Task reminder schedule updated to: %s", schedule)
	return nil
}

func (r *TaskReminder) runScheduled() {
	log.Println("Running scheduled overdue task check")
	if _, err := r.RunNow(context.Background()); err != nil {
		log.Printf("Error in overdue task check: %v", err)
	}
}

// RunNow checks overdue tasks immediately and emails each owner when a mailer is set.
func (r *TaskReminder) RunNow(ctx context.Context) (ReminderReport, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	overdue, err := r.tasks.ListOverdue(ctx, r.now())
	if err != nil {
		return ReminderReport{}, err
	}

	byEmployee := make(map[uint][]Models.Task)
	for _, task := range overdue {
		byEmployee[task.EmployeeID] = append(byEmployee[task.EmployeeID], task)
	}

	report := ReminderReport{OverdueTasks: len(overdue), Employees: len(byEmployee)}
	if len(overdue) == 0 {
		log.Println("No overdue tasks found")
		return report, nil
	}
	log.Printf("Found %d overdue task(s) across %d employee(s)", report.OverdueTasks, report.Employees)

	if r.mailer == nil {
		return report, nil
	}

	ids := make([]uint, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		employee, err := r.employees.Get(ctx, id)
		if err != nil {
			log.Printf("Skipping reminder for employee %d: %v", id, err)
			continue
		}
		if err := r.mailer.Send(email.OverdueReminder(*employee, byEmployee[id])); err != nil {
			log.Printf("Error sending reminder to employee %d: %v", id, err)
			continue
		}
		report.EmailsSent++
	}
	return report, nil
}
