package main

import (
	"os"

	"learnflow-be/internal/config"
	"learnflow-be/internal/model"
	"learnflow-be/pkg/database"
	"learnflow-be/pkg/pgnotify"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var defaultCategories = []struct {
	name        string
	description string
}{
	{"Biology", "Living organisms, cells and ecosystems"},
	{"Chemistry", "Matter, reactions and the periodic table"},
	{"Computer Science", "Algorithms, programming and systems"},
	{"History", "Events, periods and historical figures"},
	{"Languages", "Vocabulary, grammar and literature"},
	{"Mathematics", "Algebra, calculus, geometry and statistics"},
	{"Physics", "Forces, energy and the laws of nature"},
	{"Other", "Anything that does not fit elsewhere"},
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Running migrations")

	color.Yellow("\n1. Extensions")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Red("Warn: %v. Continuing...", err)
	}

	color.Yellow("\n2. AutoMigrate")
	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Category{},
		&model.Note{},
		&model.QASet{},
		&model.Question{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("AutoMigrate failed: %v", err)
		os.Exit(1)
	}
	color.Green("Migrated %d tables", len(models))

	color.Yellow("\n3. Note change trigger")
	for _, stmt := range pgnotify.NoteTriggerSQL(pgnotify.DefaultChannel) {
		if err := db.Exec(stmt).Error; err != nil {
			color.Red("Trigger setup failed: %v", err)
			os.Exit(1)
		}
	}
	color.Green("Trigger notifies channel %q", pgnotify.DefaultChannel)

	color.Yellow("\n4. Categories")
	created, err := seedCategories(db)
	if err != nil {
		color.Red("Seeding categories failed: %v", err)
		os.Exit(1)
	}
	color.Green("%d categories created, %d already present", created, len(defaultCategories)-created)

	color.Cyan("\nDone")
}

func seedCategories(db *gorm.DB) (int, error) {
	created := 0
	for _, c := range defaultCategories {
		description := c.description
		id := uuid.New()
		category := model.Category{Id: id, Name: c.name, Description: &description}
		if err := db.Where(model.Category{Name: c.name}).FirstOrCreate(&category).Error; err != nil {
			return created, err
		}
		// An existing row overwrites the generated id.
		if category.Id == id {
			created++
		}
	}
	return created, nil
}
