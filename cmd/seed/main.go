package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/gearguard/gearguard-api/config"
	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/internal/infrastructure/mongodb"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	users := mongodb.NewUserRepository(ctx, logger, db)
	teams := mongodb.NewTeamRepository(ctx, logger, db)
	equipment := mongodb.NewEquipmentRepository(ctx, logger, db)
	requests := mongodb.NewRequestRepository(ctx, logger, db)

	email := "demo@gearguard.io"
	password := "password123"
	username := "demoUser"

	u, err := users.Create(ctx, repo.CreateUserParams{
		Email:     email,
		Username:  &username,
		Password:  &password,
		FirstName: "Demo",
		LastName:  "User",
	})
	if err != nil {
		if !errors.Is(err, repo.ErrDuplicateEmail) {
			log.Fatalf("failed to seed user: %v", err)
		}
		if u, err = users.GetByEmail(ctx, email); err != nil {
			log.Fatalf("failed to load seeded user: %v", err)
		}
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID.Hex(), email, password)

	team, err := teams.Create(ctx, &entity.Team{
		Name:           "Mechanics",
		Description:    "General mechanical maintenance",
		Specialization: "mechanical",
		MemberIDs:      []string{u.ID.Hex()},
	})
	if err != nil {
		if !errors.Is(err, repo.ErrDuplicateName) {
			log.Fatalf("failed to seed team: %v", err)
		}
		log.Println("team already seeded, skipping")
		return
	}
	fmt.Printf("seeded team: id=%s name=%s\n", team.ID.Hex(), team.Name)

	eq, err := equipment.Create(ctx, &entity.Equipment{
		Name:              "CNC Mill 01",
		SerialNumber:      "CNC-0001",
		Category:          "machining",
		Department:        "production",
		MaintenanceTeamID: team.ID.Hex(),
		Vendor:            "Haas",
		Cost:              85000,
		Location:          "Hall A",
		Description:       "3-axis vertical machining center",
	})
	if err != nil {
		log.Fatalf("failed to seed equipment: %v", err)
	}
	fmt.Printf("seeded equipment: id=%s serial=%s\n", eq.ID.Hex(), eq.SerialNumber)

	scheduled := time.Now().Add(72 * time.Hour)
	req, err := requests.Create(ctx, &entity.MaintenanceRequest{
		Subject:       "Quarterly spindle inspection",
		Description:   "Check spindle runout and lubrication",
		EquipmentID:   eq.ID.Hex(),
		TeamID:        team.ID.Hex(),
		RequestType:   entity.TypePreventive,
		Priority:      1,
		ScheduledDate: &scheduled,
		DurationHours: 2,
		CreatedBy:     u.ID.Hex(),
	})
	if err != nil {
		log.Fatalf("failed to seed request: %v", err)
	}
	fmt.Printf("seeded request: id=%s stage=%s\n", req.ID.Hex(), req.Stage)
}
