package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"TaskTracker/Config"
	"TaskTracker/CronJobs"
	"TaskTracker/FiberConfig"
	"TaskTracker/Models"
	"TaskTracker/email"
)

func main() {
	cfg, err := Config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := Models.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	deps := FiberConfig.NewDependencies(cfg, db)
	app := FiberConfig.NewApp(deps)

	var mailer CronJobs.Mailer
	if cfg.SMTP.Enabled() {
		mailer = email.NewSender(cfg.SMTP)
	}
	reminder := CronJobs.NewTaskReminder(deps.Tasks, deps.Employees, mailer, cfg.ReminderSchedule)
	if err := reminder.Start(); err != nil {
		log.Fatalf("Error starting task reminder: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		reminder.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server Up on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
