package main

import (
	"errors"
	"flag"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/models"
)

// Values per 100 g.
var verifiedFoods = []models.FoodItem{
	{Name: "Chicken breast, cooked", Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6},
	{Name: "White rice, cooked", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3},
	{Name: "Brown rice, cooked", Calories: 123, ProteinG: 2.7, CarbsG: 25.6, FatG: 1},
	{Name: "Rolled oats", Calories: 379, ProteinG: 13.2, CarbsG: 67.7, FatG: 6.5},
	{Name: "Whole egg", Calories: 143, ProteinG: 12.6, CarbsG: 0.7, FatG: 9.5},
	{Name: "Greek yogurt, plain 2%", Calories: 73, ProteinG: 9.9, CarbsG: 3.9, FatG: 2},
	{Name: "Banana", Calories: 89, ProteinG: 1.1, CarbsG: 22.8, FatG: 0.3},
	{Name: "Apple", Calories: 52, ProteinG: 0.3, CarbsG: 13.8, FatG: 0.2},
	{Name: "Broccoli", Calories: 34, ProteinG: 2.8, CarbsG: 6.6, FatG: 0.4},
	{Name: "Salmon, cooked", Calories: 206, ProteinG: 22, CarbsG: 0, FatG: 12.4},
	{Name: "Olive oil", Calories: 884, ProteinG: 0, CarbsG: 0, FatG: 100},
	{Name: "Almonds", Calories: 579, ProteinG: 21.2, CarbsG: 21.6, FatG: 49.9},
	{Name: "Sweet potato, baked", Calories: 90, ProteinG: 2, CarbsG: 20.7, FatG: 0.2},
	{Name: "Lentils, cooked", Calories: 116, ProteinG: 9, CarbsG: 20.1, FatG: 0.4},
	{Name: "Whole wheat bread", Calories: 247, ProteinG: 13, CarbsG: 41, FatG: 3.4},
	{Name: "Whey protein powder", Calories: 400, ProteinG: 80, CarbsG: 8, FatG: 6},
}

func main() {
	withDemoUser := flag.Bool("demo-user", false, "Also create demo@nutriplan.local with password demopassword123")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Gorm, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	created := 0
	for _, food := range verifiedFoods {
		ok, err := seedFood(db.Gorm, food)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", food.Name, err)
		}
		if ok {
			created++
		}
	}
	log.Printf("[Seed] %d verified foods created, %d already present", created, len(verifiedFoods)-created)

	if *withDemoUser {
		if err := seedDemoUser(db.Gorm); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
	}
}

// seedFood inserts food unless a verified item with the same name exists.
func seedFood(db *gorm.DB, food models.FoodItem) (bool, error) {
	var existing models.FoodItem
	err := db.Where("verified = ? AND name = ?", true, food.Name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	food.ID = uuid.Nil
	food.Verified = true
	food.Source = models.FoodSourceSeed
	food.ServingSize = 100
	food.ServingUnit = "g"
	return true, db.Create(&food).Error
}

func seedDemoUser(db *gorm.DB) error {
	const email = "demo@nutriplan.local"

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("[Seed] demo user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("demopassword123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{Name: "Demo", Email: email, PasswordHash: string(hashedPassword)}
	if err := db.Create(user).Error; err != nil {
		return err
	}
	log.Printf("[Seed] created demo user %s", email)
	return nil
}
