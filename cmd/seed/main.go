// Package main provides a tool to seed the database with test data.
//
// This creates a handful of users and ranked album lists so the API
// can be exercised against realistic content.
//
// Usage:
//
//	DB_PATH=~/stargate/db go run ./cmd/seed
//	DB_PATH=~/stargate/db go run ./cmd/seed --admin  # First user becomes admin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sushestargate/stargate-server/internal/auth"
	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/store"
)

var makeAdmin = flag.Bool("admin", false, "Give the first seeded user the admin role")

// seedPassword is shared by every seeded account.
const seedPassword = "stargate-dev-password"

var seedUsers = []string{"ripley", "dallas", "lambert"}

var seedEntries = []domain.AlbumEntry{
	{Artist: "King Gizzard & The Lizard Wizard", Album: "Flight b741", ReleaseDate: "2024-08-09", Country: "Australia", Genre1: "Rock"},
	{Artist: "Opeth", Album: "The Last Will and Testament", ReleaseDate: "2024-11-22", Country: "Sweden", Genre1: "Progressive Metal"},
	{Artist: "Tyler, the Creator", Album: "Chromakopia", ReleaseDate: "2024-10-28", Country: "United States", Genre1: "Hip Hop"},
	{Artist: "The Cure", Album: "Songs of a Lost World", ReleaseDate: "2024-11-01", Country: "United Kingdom", Genre1: "Gothic Rock"},
	{Artist: "Beth Gibbons", Album: "Lives Outgrown", ReleaseDate: "2024-05-17", Country: "United Kingdom", Genre1: "Folk"},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/stargate/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	for i, username := range seedUsers {
		user := &domain.User{
			Username:     username,
			PasswordHash: hash,
			Role:         domain.RoleUser,
			Preferences:  domain.DefaultPreferences(),
		}
		if i == 0 && *makeAdmin {
			user.Role = domain.RoleAdmin
		}

		if err := s.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				existing, lookupErr := s.GetUserByUsername(ctx, username)
				if lookupErr != nil {
					log.Fatalf("Failed to look up existing user %s: %v", username, lookupErr)
				}
				user = existing
				fmt.Printf("User %s already exists, reusing\n", username)
			} else {
				log.Fatalf("Failed to create user %s: %v", username, err)
			}
		} else {
			fmt.Printf("Created user %s (%s, role %s)\n", username, user.ID, user.Role)
		}

		if err := seedList(ctx, s, user, i); err != nil {
			log.Fatalf("Failed to seed list for %s: %v", username, err)
		}
	}

	fmt.Println("Seeding complete")
	fmt.Printf("All accounts use password: %s\n", seedPassword)
}

// seedList creates one ranked list per user, rotating the entries so
// every user ends up with a different ordering.
func seedList(ctx context.Context, s *store.Store, user *domain.User, offset int) error {
	entries := make([]domain.AlbumEntry, len(seedEntries))
	for i := range seedEntries {
		entries[i] = seedEntries[(i+offset)%len(seedEntries)]
	}

	list := &domain.List{
		UserID:  user.ID,
		Name:    "Albums of 2024",
		Entries: entries,
	}

	if err := s.CreateList(ctx, list); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			fmt.Printf("List for %s already exists, skipping\n", user.Username)
			return nil
		}
		return err
	}

	fmt.Printf("Created list %q for %s with %d entries\n", list.Name, user.Username, len(list.Entries))
	return nil
}
