package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/adapter/postgres"
	"github.com/empdesk/empdesk/infrastructure/config"
	"github.com/empdesk/empdesk/infrastructure/db"
	"github.com/empdesk/empdesk/infrastructure/service/password"
)

// create_admin bootstraps the first admin account. Every other account is
// created through POST /employees by an admin.
func main() {
	username := flag.String("username", "admin", "admin username")
	mail := flag.String("mail", "admin@example.com", "admin mail address")
	pass := flag.String("password", "", "admin password (at least 8 characters)")
	firstName := flag.String("firstname", "System", "first name")
	lastName := flag.String("lastname", "Administrator", "last name")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(*pass) < 8 {
		log.Fatal("-password must be at least 8 characters")
	}
	address, err := valueobject.NewEmail(*mail)
	if err != nil {
		log.Fatalf("Invalid -mail: %v", err)
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	employeeRepo := postgres.NewEmployeeRepository(conn)

	hash, err := password.NewBcryptPasswordService(cfg.BcryptCost).HashPassword(*pass)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := entity.NewEmployee(*firstName, *lastName, address, *username, hash, entity.RoleAdmin, 0)
	if err := employeeRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, outbound.ErrEmployeeAlreadyExists) {
			log.Fatalf("An employee with username %q or mail %q already exists", *username, address)
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created: empid=%d username=%s mail=%s\n", admin.ID, admin.Username, admin.Mail)
}
