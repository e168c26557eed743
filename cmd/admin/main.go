package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mlaconnect/backend/internal/complaint"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  promote <email>                 make the account an MLA
  demote <email>                  make the account a citizen
  set-tehsils <email> <t1,t2,...> replace an MLA's tehsil list
  expire                          expire every stale meeting request and invitation
  close-complaint <id>            close a complaint without notifying the filer`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	ctx := context.Background()

	command := os.Args[1]

	switch command {
	case "promote", "demote":
		if len(os.Args) != 3 {
			fmt.Printf("Usage: admin %s <email>\n", command)
			os.Exit(1)
		}
		role := models.RoleMLA
		if command == "demote" {
			role = models.RoleCitizen
		}
		if err := setRole(ctx, storageSvc, os.Args[2], role); err != nil {
			log.Fatalf("Error changing role: %v", err)
		}
		fmt.Printf("%s is now a %s.\n", os.Args[2], role)
	case "set-tehsils":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-tehsils <email> <t1,t2,...>")
			os.Exit(1)
		}
		if err := setTehsils(ctx, storageSvc, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error setting tehsils: %v", err)
		}
		fmt.Printf("Tehsils updated for %s.\n", os.Args[2])
	case "expire":
		meetings, invitations, err := expireAll(ctx, storageSvc, time.Now())
		if err != nil {
			log.Fatalf("Error expiring records: %v", err)
		}
		fmt.Printf("Expired %d meeting requests and %d invitations.\n", meetings, invitations)
	case "close-complaint":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin close-complaint <complaint_id>")
			os.Exit(1)
		}
		svc := complaint.NewService(storageSvc, nil, nil, nil, zap.NewNop())
		if _, err := svc.Close(ctx, os.Args[2]); err != nil {
			log.Fatalf("Error closing complaint: %v", err)
		}
		fmt.Printf("Complaint %s has been closed.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

type userStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

func setRole(ctx context.Context, s userStore, email string, role models.Role) error {
	user, err := s.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	user.Role = role
	return s.SaveUser(ctx, user)
}

func setTehsils(ctx context.Context, s userStore, email, list string) error {
	user, err := s.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if !user.IsMLA() {
		return fmt.Errorf("%s is not an MLA", email)
	}
	user.Tehsils = nil
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			user.Tehsils = append(user.Tehsils, t)
		}
	}
	return s.SaveUser(ctx, user)
}

type expirer interface {
	ExpireMeetingRequests(ctx context.Context, scope storage.Scope, now time.Time) (int64, error)
	ExpireInvitations(ctx context.Context, scope storage.Scope, now time.Time) (int64, error)
}

// expireAll sweeps every owner at once; an empty scope matches all rows.
func expireAll(ctx context.Context, s expirer, now time.Time) (int64, int64, error) {
	meetings, err := s.ExpireMeetingRequests(ctx, storage.Scope{}, now)
	if err != nil {
		return 0, 0, err
	}
	invitations, err := s.ExpireInvitations(ctx, storage.Scope{}, now)
	if err != nil {
		return meetings, 0, err
	}
	return meetings, invitations, nil
}
