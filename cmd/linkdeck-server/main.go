package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/activity"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/auth"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/categories"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/database"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/gateway"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/importexport"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/links"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/store"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/tags"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/ui"
	"gorm.io/gorm"
)

// @title Linkdeck API
// @version 1.0
// @description A single-operator link-organizer dashboard with categories, tags, pinning, and drag reordering.

// @license.name MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("LINKDECK_DB_PATH")
	if dbPath == "" {
		dbPath = "linkdeck.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Seed the default board columns on first run
	if err := ensureCategoriesExist(); err != nil {
		log.Fatalf("Failed to ensure categories exist: %v", err)
	}

	// Create the operator account if none exists
	operator, err := ensureOperatorExists()
	if err != nil {
		log.Fatalf("Failed to ensure operator exists: %v", err)
	}

	// Build the gateway and the in-memory board mirror
	gw := gateway.New(database.GetDB(), operator.ID)
	st := store.New(gw, loadSocialLinks())
	if err := st.Initialize(); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "linkdeck",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Everything else requires the operator's JWT
		protected := api.Group("", auth.AuthMiddleware())

		categoriesHandler := categories.NewHandler(st)
		categoriesHandler.RegisterRoutes(protected)

		linksHandler := links.NewHandler(st)
		linksHandler.RegisterRoutes(protected)

		tagsHandler := tags.NewHandler(st)
		tagsHandler.RegisterRoutes(protected)

		activityHandler := activity.NewHandler(st)
		activityHandler.RegisterRoutes(protected)

		uiHandler := ui.NewHandler(st)
		uiHandler.RegisterRoutes(protected)

		importExportHandler := importexport.NewHandler(st)
		importExportHandler.RegisterRoutes(protected)
	}

	// Serve static frontend files if web/dist exists
	webDistPath := "./web/dist"
	if _, err := os.Stat(webDistPath); err == nil {
		r.Static("/assets", filepath.Join(webDistPath, "assets"))
		r.StaticFile("/favicon.ico", filepath.Join(webDistPath, "favicon.ico"))

		// SPA fallback - serve index.html for frontend routes
		indexHTML := filepath.Join(webDistPath, "index.html")
		for _, route := range []string{"/", "/login", "/dashboard"} {
			r.GET(route, func(c *gin.Context) {
				c.File(indexHTML)
			})
		}

		log.Println("Serving frontend from ./web/dist")
	} else {
		log.Println("No frontend build found at ./web/dist - API only mode")
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Linkdeck server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// defaultCategories are the board columns seeded on first run. Ranks
// drive the display badges.
var defaultCategories = []models.Category{
	{Name: "Inbox", DisplayOrder: 1},
	{Name: "Working", DisplayOrder: 2},
	{Name: "Archive", DisplayOrder: 3},
}

// ensureCategoriesExist seeds the default columns when the board is empty
func ensureCategoriesExist() error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, cat := range defaultCategories {
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default categories", len(defaultCategories))
	return nil
}

// ensureOperatorExists creates the single operator account if no user
// exists, using env-provided credentials or development defaults.
// Returns the operator.
func ensureOperatorExists() (*models.User, error) {
	db := database.GetDB()

	var operator models.User
	err := db.Order("id ASC").First(&operator).Error
	if err == nil {
		return &operator, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	email := os.Getenv("LINKDECK_ADMIN_EMAIL")
	if email == "" {
		email = "admin@linkdeck.local"
	}
	password := os.Getenv("LINKDECK_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	operator = models.User{
		Email:        email,
		Name:         "Admin",
		PasswordHash: hashedPassword,
		SystemRole:   models.SystemRoleAdmin,
	}
	if err := db.Create(&operator).Error; err != nil {
		return nil, err
	}

	log.Printf("Created operator account: %s", email)
	return &operator, nil
}

// loadSocialLinks reads the shortcut rail from LINKDECK_SOCIAL_LINKS if
// set, falling back to the compiled-in defaults
func loadSocialLinks() []board.SocialLink {
	path := os.Getenv("LINKDECK_SOCIAL_LINKS")
	if path == "" {
		return board.DefaultSocialLinks()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read social links file: %v", err)
		return board.DefaultSocialLinks()
	}

	var socials []board.SocialLink
	if err := json.Unmarshal(data, &socials); err != nil {
		log.Printf("Warning: failed to parse social links file: %v", err)
		return board.DefaultSocialLinks()
	}
	return socials
}
