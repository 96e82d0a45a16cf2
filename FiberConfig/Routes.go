package FiberConfig

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"TaskTracker/Config"
	"TaskTracker/Controllers"
	"TaskTracker/Security"
	"TaskTracker/Services"
	"TaskTracker/middleware"
)

// Dependencies are the services shared by every handler.
type Dependencies struct {
	Config    Config.Config
	Codec     *Security.TokenCodec
	Auth      *Services.AuthService
	Employees *Services.EmployeeService
	Tasks     *Services.TaskService
}

// NewDependencies builds the service graph over db.
func NewDependencies(cfg Config.Config, db *gorm.DB) Dependencies {
	codec := Security.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	validator := Services.NewValidator()
	return Dependencies{
		Config:    cfg,
		Codec:     codec,
		Auth:      Services.NewAuthService(db, codec, validator),
		Employees: Services.NewEmployeeService(db, validator),
		Tasks:     Services.NewTaskService(db, validator),
	}
}

// NewApp creates the Fiber app with middleware applied in order:
// request logging, error logging, compression, CORS, then the gatekeeper.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TaskTracker",
		ErrorHandler: errorHandler,
	})

	logDir := deps.Config.LogDir
	if logDir != "" {
		app.Use(middleware.RequestLogger(logDir, deps.Config.LogFormat))
		app.Use(middleware.ErrorLogger(filepath.Join(logDir, "errors.log")))
	}
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       300,
	}))
	app.Use(middleware.Gatekeeper(deps.Codec))

	SetupRoutes(app, deps)
	return app
}

// SetupRoutes is the route table.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authController := Controllers.NewAuthController(deps.Auth)
	employeeController := Controllers.NewEmployeeController(deps.Employees)
	taskController := Controllers.NewTaskController(deps.Tasks)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/signup", authController.SignUp)
	auth.Post("/signin", authController.SignIn)

	// Employee routes
	employees := app.Group("/api/employees")
	employees.Get("/allEmployees", employeeController.GetEmployees)
	employees.Get("/:id", employeeController.GetEmployee)
	employees.Put("/:id", employeeController.UpdateEmployee)
	employees.Delete("/:id", employeeController.DeleteEmployee)

	// Task routes
	tasks := app.Group("/tasks")
	tasks.Post("/add/:empId", taskController.AddTask)
	tasks.Get("/all", taskController.GetAllTasks)
	tasks.Get("/employee/:empId", taskController.GetEmployeeTasks)
	tasks.Put("/update/:taskId", taskController.UpdateTask)
	tasks.Get("/pending/:empId", taskController.GetPendingTasks)
	tasks.Get("/completed/:empId", taskController.GetCompletedTasks)
	tasks.Get("/startdate/:date/:empId", taskController.GetTasksByStartDate)
	tasks.Get("/export/:empId", taskController.ExportTasks)
	tasks.Delete("/:taskId", taskController.DeleteTask)

	if deps.Config.LogDir != "" {
		logsController := Controllers.NewLogsController(filepath.Join(deps.Config.LogDir, "requests.log"))
		app.Get("/api/logs", logsController.GetLogs)
	}
}

// errorHandler renders errors escaping the handlers as {"error": ...}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
