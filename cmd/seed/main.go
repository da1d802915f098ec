package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/infrastructure/adapter/postgres"
	"github.com/empdesk/empdesk/infrastructure/config"
	"github.com/empdesk/empdesk/infrastructure/db"
	"github.com/empdesk/empdesk/infrastructure/service/password"
)

type seedEmployee struct {
	firstName, lastName, username, role string
	leaves                              int
}

var demoEmployees = []seedEmployee{
	{"Ada", "Admin", "admin.demo", entity.RoleAdmin, 0},
	{"Hugo", "Resources", "hr.demo", entity.RoleHR, 20},
	{"Mia", "Manager", "manager.demo", entity.RoleManager, 20},
	{"Emil", "Worker", "employee.demo", entity.RoleEmployee, 15},
}

// seed fills a development database with one account per role plus a few
// leaves and timesheets for the employee account. All accounts share
// SEED_PASSWORD. Refuses to run when ENV=production.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	seedPassword := getenvDefault("SEED_PASSWORD", "Demo1234!")

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	employees := postgres.NewEmployeeRepository(conn)
	leaves := postgres.NewLeaveRepository(conn)
	timesheets := postgres.NewTimesheetRepository(conn)

	hash, err := password.NewBcryptPasswordService(cfg.BcryptCost).HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var worker *entity.Employee
	for _, s := range demoEmployees {
		e := entity.NewEmployee(s.firstName, s.lastName, s.username+"@example.com", s.username, hash, s.role, s.leaves)
		if err := employees.Create(ctx, e); err != nil {
			if errors.Is(err, outbound.ErrEmployeeAlreadyExists) {
				fmt.Printf("skip %s: already exists\n", s.username)
				continue
			}
			log.Fatalf("Failed to seed %s: %v", s.username, err)
		}
		fmt.Printf("seeded %-14s role=%-8s empid=%d\n", s.username, s.role, e.ID)
		if s.role == entity.RoleEmployee {
			worker = e
		}
	}

	if worker == nil {
		fmt.Println("employee account already present, leaving its history alone")
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	leave, err := entity.NewLeave(worker.ID, today.AddDate(0, 0, 14), today.AddDate(0, 0, 16), "vacation", "seeded request")
	if err != nil {
		log.Fatalf("Failed to build leave: %v", err)
	}
	if err := leaves.Create(ctx, leave); err != nil {
		log.Fatalf("Failed to seed leave: %v", err)
	}

	for i, project := range []string{"PRJ-1", "PRJ-1", "PRJ-2"} {
		ts, err := entity.NewTimesheet(worker.ID, today.AddDate(0, 0, -i-1), 7.5, "seeded work", project)
		if err != nil {
			log.Fatalf("Failed to build timesheet: %v", err)
		}
		if err := timesheets.Create(ctx, ts); err != nil {
			log.Fatalf("Failed to seed timesheet: %v", err)
		}
	}

	fmt.Printf("seeded 1 leave and 3 timesheets for %s (password %q)\n", worker.Username, seedPassword)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
