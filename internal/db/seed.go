package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPassword is the password every seeded account logs in with.
const SeedPassword = "password"

var seedBios = []string{
	"Coffee first, then adventures.",
	"Weekend hiker and amateur baker.",
	"Looking for someone to share bad puns with.",
	"Bookworm. Cat person. Night owl.",
	"Will travel for good food.",
}

// SeedTestData resets the database and populates it with demo users, likes and messages.
//
// Behavior:
//  1. Clears existing data in `messages`, `likes` and `users`.
//  2. Creates 20 users (10 male, 10 female) with bcrypt-hashed SeedPassword.
//  3. Generates random likes between opposite genders, every 3rd pair mutual.
//  4. Adds a short two-message thread for each mutual pair.
//
// Compatible with sqlite, MySQL and Postgres (sequence reset is best effort).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('messages', 'users')")
	case "postgres":
		db.Exec("ALTER SEQUENCE messages_id_seq RESTART WITH 1")
		db.Exec("ALTER SEQUENCE users_id_seq RESTART WITH 1")
	}

	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// --- Seed Users (10 male, 10 female) ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := "male"
		if i > 10 {
			gender = "female"
		}
		users = append(users, User{
			Username:       fmt.Sprintf("user%d", i),
			PasswordHash:   string(hash),
			Gender:         gender,
			Bio:            seedBios[r.Intn(len(seedBios))],
			ProfilePicture: DefaultProfilePicture,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Println("Seeded 20 users.")

	// --- Seed Likes ---
	upsert := clause.OnConflict{DoNothing: true}
	counter := 0
	for _, actor := range users {
		for j := 0; j < 6; j++ {
			target := users[r.Intn(len(users))]
			if actor.ID == target.ID || actor.Gender == target.Gender {
				continue
			}

			if err := db.Clauses(upsert).Create(&Like{LikerID: actor.ID, LikedID: target.ID}).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				if err := db.Clauses(upsert).Create(&Like{LikerID: target.ID, LikedID: actor.ID}).Error; err != nil {
					return fmt.Errorf("failed to seed like: %w", err)
				}
				thread := []Message{
					{SenderID: actor.ID, RecipientID: target.ID, Body: "Hey! We matched :)"},
					{SenderID: target.ID, RecipientID: actor.ID, Body: "Hi " + actor.Username + ", nice to meet you."},
				}
				for i := range thread {
					if err := db.Omit(clause.Associations).Create(&thread[i]).Error; err != nil {
						return fmt.Errorf("failed to seed message: %w", err)
					}
				}
			}
			counter++
		}
	}
	log.Printf("Seeded %d likes.", counter)

	return nil
}
