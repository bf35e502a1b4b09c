// Package main is the data seeder for the Fieldworks API.
// It loads sample users, products and knowledge base items into MongoDB
// for local development, or wipes them again.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldworks/fieldworks-api/internal/config"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	mongorepo "github.com/fieldworks/fieldworks-api/internal/repository/mongo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cfg := config.MustLoad("")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongorepo.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer db.Close(context.Background())

	switch os.Args[1] {
	case "import":
		if err := importData(ctx, db, logger); err != nil {
			logger.Fatal().Err(err).Msg("import failed")
		}
		logger.Info().Msg("sample data imported")

	case "destroy":
		if err := destroyData(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("destroy failed")
		}
		logger.Info().Msg("sample data destroyed")

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// importData inserts the sample dataset. The admin user owns every
// sample document.
func importData(ctx context.Context, db *mongorepo.DB, logger zerolog.Logger) error {
	userRepo := mongorepo.NewUserRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	kbRepo := mongorepo.NewKnowledgeBaseRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash sample password: %w", err)
	}

	admin := domain.NewUser("Admin User", "admin@fieldworks.dev", string(hash))
	admin.Role = domain.RoleAdmin
	if err := userRepo.Insert(ctx, admin); err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	publisher := domain.NewUser("Jane Publisher", "jane@fieldworks.dev", string(hash))
	publisher.Role = domain.RolePublisher
	if err := userRepo.Insert(ctx, publisher); err != nil {
		return fmt.Errorf("failed to insert publisher user: %w", err)
	}

	for _, sample := range sampleProducts() {
		p := domain.NewProduct(admin.ID)
		p.Name = sample.name
		p.Price = sample.price
		p.Description = sample.description
		p.Category = sample.category
		p.CountInStock = sample.stock
		if err := p.Validate(); err != nil {
			return fmt.Errorf("sample product %q invalid: %w", sample.name, err)
		}
		if err := productRepo.Insert(ctx, p); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", sample.name, err)
		}
	}

	for _, sample := range sampleArticles() {
		item := domain.NewKnowledgeBaseItem(publisher.ID)
		item.Title = sample.title
		item.Description = sample.description
		item.Content = sample.content
		item.Category = sample.category
		item.Type = sample.articleType
		item.Level = sample.level
		item.Duration = sample.duration
		item.Tags = sample.tags
		if err := item.Validate(); err != nil {
			return fmt.Errorf("sample article %q invalid: %w", sample.title, err)
		}
		if err := kbRepo.Insert(ctx, item); err != nil {
			return fmt.Errorf("failed to insert article %q: %w", sample.title, err)
		}
	}

	logger.Info().
		Str("admin", admin.Email).
		Str("publisher", publisher.Email).
		Msg("sample accounts created (password: password123)")
	return nil
}

// destroyData drops all seeded collections.
func destroyData(ctx context.Context, db *mongorepo.DB) error {
	for _, name := range []string{"products", "orders", "knowledge_base", "users", "reviews"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
	}
	return nil
}

type sampleProduct struct {
	name        string
	price       float64
	description string
	category    domain.ProductCategory
	stock       int
}

func sampleProducts() []sampleProduct {
	return []sampleProduct{
		{
			name:        "DAP Planting Fertilizer 50kg",
			price:       64.99,
			description: "Di-ammonium phosphate fertilizer for use at planting. Suitable for maize, wheat and vegetables.",
			category:    domain.CategoryFertilizers,
			stock:       25,
		},
		{
			name:        "Drip Irrigation Starter Kit",
			price:       129.99,
			description: "Complete drip kit for a quarter-acre plot: mainline, drip lines, connectors and filter.",
			category:    domain.CategoryIrrigation,
			stock:       10,
		},
		{
			name:        "Hybrid Maize Seed 10kg",
			price:       38.5,
			description: "Drought-tolerant hybrid maize seed with a 120-day maturity period.",
			category:    domain.CategorySeeds,
			stock:       40,
		},
		{
			name:        "Hand Cultivator Set",
			price:       18.0,
			description: "Three-piece steel hand cultivator set with hardwood handles.",
			category:    domain.CategoryTools,
			stock:       15,
		},
	}
}

type sampleArticle struct {
	title       string
	description string
	content     string
	category    domain.ArticleCategory
	articleType domain.ArticleType
	level       domain.ArticleLevel
	duration    string
	tags        []string
}

func sampleArticles() []sampleArticle {
	return []sampleArticle{
		{
			title:       "Getting Started with Crop Rotation",
			description: "Why rotating crops keeps soil healthy and how to plan a simple rotation.",
			content:     "Crop rotation breaks pest and disease cycles and balances nutrient demand. Start by grouping your crops into legumes, cereals and roots, then rotate the groups across seasons.",
			category:    domain.ArticleCropManagement,
			articleType: domain.TypeGuide,
			level:       domain.LevelBeginner,
			duration:    "10 min",
			tags:        []string{"soil", "rotation", "planning"},
		},
		{
			title:       "Scheduling Drip Irrigation",
			description: "How to decide when and how long to run a smallholder drip system.",
			content:     "Match irrigation runs to crop stage and soil type. Sandy soils need shorter, more frequent runs; clay soils hold water longer. Check emitter flow rates before building a schedule.",
			category:    domain.ArticleSmartIrrigation,
			articleType: domain.TypeArticle,
			level:       domain.LevelIntermediate,
			duration:    "15 min",
			tags:        []string{"irrigation", "water", "scheduling"},
		},
		{
			title:       "Selling Through Market Cooperatives",
			description: "Pooling produce with neighbours to reach better buyers.",
			content:     "Cooperatives aggregate volume, which unlocks buyers that individual farmers cannot reach. This guide covers registration, quality grading and payment structures.",
			category:    domain.ArticleMarketAccess,
			articleType: domain.TypeGuide,
			level:       domain.LevelAll,
			duration:    "20 min",
			tags:        []string{"market", "cooperative", "pricing"},
		},
	}
}

func printUsage() {
	fmt.Println(`Fieldworks Data Seeder

Usage:
  fieldworks-seed <command>

Commands:
  import      Insert sample users, products and knowledge base items
  destroy     Drop all application collections
  help        Show this help message

Configuration is read the same way as the server (config file plus
FIELDWORKS_ environment variables).`)
}
