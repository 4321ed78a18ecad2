package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"ais-booking-backend/config"
	"ais-booking-backend/models"
	"ais-booking-backend/routes"
	"ais-booking-backend/services"
	"ais-booking-backend/session"
	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	store := setupStorage()
	sessions := setupSessions()
	notifier := setupNotifier()

	if err := ensureAdminUser(store); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(store, sessions, notifier)
	printRoutes(r)
	r.Run(":" + port)
}

func setupStorage() storage.Storage {
	if os.Getenv("DB_URL") == "" {
		log.Println("DB_URL not set, using in-memory storage (data is lost on restart)")
		return storage.NewMemoryStorage()
	}

	config.ConnectDB()
	config.DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Booking{},
	)
	return storage.NewGormStorage(config.DB)
}

func setupSessions() *session.Manager {
	ttl := 24 * time.Hour
	if env := os.Getenv("SESSION_TTL_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			ttl = time.Duration(h) * time.Hour
		}
	}

	if os.Getenv("SESSION_STORE") == "redis" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		client := session.NewRedisClient(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), db)
		redisStore := session.NewRedisStore(client)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("Redis session store unavailable: %v", err)
		}
		log.Println("Using Redis session store")
		return session.NewManager(redisStore, ttl)
	}

	memStore := session.NewMemoryStore()

	// Expired records are also dropped lazily on read; the sweep keeps the
	// map from accumulating tokens that are never touched again.
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if removed := memStore.Sweep(); removed > 0 {
			log.Printf("Session sweep removed %d expired sessions", removed)
		}
	})
	c.Start()

	return session.NewManager(memStore, ttl)
}

func setupNotifier() services.Notifier {
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		log.Println("TWILIO_ACCOUNT_SID not set, booking notifications disabled")
		return services.NoopNotifier{}
	}
	return services.NewTwilioNotifier()
}

// ensureAdminUser creates the bootstrap admin account on first start. The
// default password is a known weakness kept for compatibility with existing
// deployments; set ADMIN_PASSWORD to override it.
func ensureAdminUser(store storage.Storage) error {
	if _, err := store.GetUserByUsername("admin"); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("WARNING: admin account created with the default password; set ADMIN_PASSWORD")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser("admin", hashed); err != nil {
		return err
	}
	log.Println("Default admin user created")
	return nil
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
