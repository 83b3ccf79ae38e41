// One-shot importer: seeds an admin account and loads a sheet-export JSON
// dump of project rows into MySQL. Run it once with the same environment as
// the server, then log in and change the admin password.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"airdrop-tracker/internal/config"
	"airdrop-tracker/internal/model"
	mysqlClient "airdrop-tracker/internal/platform/mysql"
	"airdrop-tracker/internal/pkg/passhash"
	"airdrop-tracker/internal/repository"
)

type projectRow struct {
	Name       string          `json:"name"`
	Twitter    string          `json:"twitter"`
	Discord    string          `json:"discord"`
	Telegram   string          `json:"telegram"`
	Wallet     string          `json:"wallet"`
	Email      string          `json:"email"`
	Github     string          `json:"github"`
	Website    string          `json:"website"`
	Notes      string          `json:"notes"`
	Tags       json.RawMessage `json:"tags"`
	Daily      string          `json:"daily"`
	LastUpdate string          `json:"lastupdate"`
}

func main() {
	source := flag.String("source", "", "path or URL of the sheet-export JSON array")
	adminUser := flag.String("admin-user", "admin", "admin username to own the imported projects")
	adminEmail := flag.String("admin-email", "admin@example.com", "admin email")
	adminPassword := flag.String("admin-password", "", "admin password (required when the admin account does not exist yet)")
	flag.Parse()

	if *source == "" {
		log.Fatal("-source is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	ctx := context.Background()
	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("connect mysql failed: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Project{}, &model.AuditEvent{}); err != nil {
		log.Fatalf("auto migrate tables failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	hasher := passhash.New(passhash.Params{
		Time:     uint32(cfg.Auth.HashTime),
		MemoryKB: uint32(cfg.Auth.HashMemoryKB),
		Threads:  uint8(cfg.Auth.HashThreads),
	})

	adminID, err := ensureAdmin(userRepo, hasher, *adminUser, *adminEmail, *adminPassword)
	if err != nil {
		log.Fatalf("ensure admin failed: %v", err)
	}

	rows, err := readRows(*source)
	if err != nil {
		log.Fatalf("read source failed: %v", err)
	}
	log.Printf("found %d projects to import", len(rows))

	migrated, skipped := 0, 0
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			log.Print("skipping project without name")
			skipped++
			continue
		}

		existing, err := projectRepo.GetByOwnerAndName(adminID, name)
		if err != nil {
			log.Fatalf("check existing project failed: %v", err)
		}
		if existing != nil {
			log.Printf("skipping %q: already exists", name)
			skipped++
			continue
		}

		if err := projectRepo.Create(rowToProject(row, adminID, name)); err != nil {
			log.Fatalf("import %q failed: %v", name, err)
		}
		log.Printf("migrated %q", name)
		migrated++
	}

	log.Printf("import finished: %d migrated, %d skipped", migrated, skipped)
}

func ensureAdmin(users *repository.UserRepository, hasher *passhash.Hasher, username, email, password string) (string, error) {
	existing, err := users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		log.Printf("admin user %q already exists", username)
		return existing.ID, nil
	}

	if password == "" {
		return "", fmt.Errorf("admin user %q does not exist and no -admin-password was given", username)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return "", err
	}

	admin := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsApproved:   true,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(admin); err != nil {
		return "", err
	}
	log.Printf("created admin user %q; change the password after first login", username)
	return admin.ID, nil
}

func readRows(source string) ([]projectRow, error) {
	var raw []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, fetchErr := client.Get(source)
		if fetchErr != nil {
			return nil, fetchErr
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, source)
		}
		raw, err = io.ReadAll(resp.Body)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var rows []projectRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("source is not a JSON array of projects: %w", err)
	}
	return rows, nil
}

func rowToProject(row projectRow, ownerID, name string) *model.Project {
	daily := strings.TrimSpace(row.Daily)
	if daily == "" {
		daily = model.DailyUnchecked
	}

	lastUpdate := time.Now().UTC()
	if row.LastUpdate != "" {
		if parsed, err := time.Parse(time.RFC3339, row.LastUpdate); err == nil {
			lastUpdate = parsed
		}
	}

	return &model.Project{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Twitter:    row.Twitter,
		Discord:    row.Discord,
		Telegram:   row.Telegram,
		Wallet:     row.Wallet,
		Email:      row.Email,
		Github:     row.Github,
		Website:    row.Website,
		Notes:      row.Notes,
		Tags:       parseTags(row.Tags),
		Daily:      daily,
		LastUpdate: lastUpdate,
	}
}

// Sheet exports are messy: tags arrive as a JSON list, as a string containing
// a JSON list, or as a bare string.
func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return []string{}
	}
	if err := json.Unmarshal([]byte(single), &tags); err == nil {
		return tags
	}
	if trimmed := strings.TrimSpace(single); trimmed != "" {
		return []string{trimmed}
	}
	return []string{}
}
