package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/adegamar/backend/config"
	"github.com/adegamar/backend/middleware"
	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/repository"
	"github.com/adegamar/backend/services"
	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	createAdmin := flag.Bool("create-admin", false,
		"create the primary admin from ADMIN_EMAIL/ADMIN_PASSWORD/ADMIN_NAME and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	for _, envVar := range []string{"MONGO_URI", "MONGO_DB"} {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitMongoClient()

	appCfg := config.LoadAppConfig()
	dbCfg := config.LoadDatabaseConfig()

	usersCollection := utils.GetEnvAsString("USERS_COLLECTION", "users")
	sessionsCollection := utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions")

	if err := repository.SetupIndexes(
		utils.MongoClient.Database(dbCfg.DatabaseName),
		usersCollection, sessionsCollection,
	); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	userRepo := repository.GetUserRepo(utils.MongoClient, dbCfg.DatabaseName, usersCollection)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient, dbCfg.DatabaseName, sessionsCollection)

	if *createAdmin {
		if err := createPrimaryAdmin(userRepo); err != nil {
			log.Fatalf("Failed to create primary admin: %v", err)
		}
		return
	}

	if appCfg.RedisURL != "" {
		cache, err := services.NewSessionCache(appCfg.RedisURL)
		if err != nil {
			log.Printf("Warning: session cache disabled: %v", err)
		} else {
			services.GlobalSessionCache = cache
			defer cache.Close()
		}
	}

	if appCfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cookieCfg := middleware.CookieConfig{
		Name:   appCfg.CookieName,
		MaxAge: appCfg.SessionDuration,
		Secure: appCfg.SecureCookies,
	}

	app := &App{
		Auth: &usecase.AuthService{
			Users:           userRepo,
			Sessions:        sessionRepo,
			SessionDuration: appCfg.SessionDuration,
		},
		Users: &usecase.UserService{
			Users:    userRepo,
			Sessions: sessionRepo,
		},
		Content:     usecase.NewContentStore(appCfg.ContentDir, appCfg.BackupDir, appCfg.AllowedFiles),
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Cookie:      cookieCfg,
	}

	router := setupRouter(app)

	log.Printf("Listening on :%s", appCfg.Port)
	if err := router.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// createPrimaryAdmin is the out-of-band setup step: the only way the
// primary admin account comes into existence.
func createPrimaryAdmin(users *repository.UserRepo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if !utils.ValidatePassword(password) {
		return errors.New("ADMIN_PASSWORD does not meet the password policy")
	}

	existing, err := users.FindPrimaryUser(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("primary admin already exists")
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsPrimary:    true,
		CreatedAt:    time.Now(),
	}

	if err := users.CreateUser(ctx, user); err != nil {
		return err
	}

	log.Printf("Created primary admin %s", email)
	return nil
}
