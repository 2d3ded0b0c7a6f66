package main

import (
	"log"

	"github.com/libyanfood/site/internal/cache"
	"github.com/libyanfood/site/internal/config"
	"github.com/libyanfood/site/internal/content"
	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/server"
	"github.com/libyanfood/site/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Config Error: ", err)
	}

	if err := utils.ValidateJWTSecret(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secret validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}
	log.Printf("✅ Connected to %s database", cfg.DBDriver)

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}

	// ========== SEED DEFAULT DATA ==========
	if err := database.Seed(db, database.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		log.Fatal("❌ Seeding failed: ", err)
	}
	log.Println("✅ Default content seeded")

	// ========== CACHE SETUP ==========
	content.CacheTTL = cfg.CacheTTL
	if cfg.UseRedisCache() {
		rc, err := cache.NewRedis(cfg.RedisURL, "foodsite:")
		if err != nil {
			log.Println("⚠️  Redis unavailable, using in-memory cache:", err)
		} else {
			cache.Current = rc
			log.Println("✅ Redis cache connected")
		}
	} else {
		log.Println("💾 Using in-memory content cache")
	}
	defer cache.Current.Close()

	// ========== STORAGE SETUP ==========
	if err := utils.InitLocalStorage(cfg.UploadDir); err != nil {
		log.Fatal("❌ Failed to initialize local storage:", err)
	}
	log.Printf("✅ Local storage initialized at %s", cfg.UploadDir)

	if cfg.UseS3 {
		if cfg.S3Bucket != "" && cfg.S3Region != "" {
			if err := utils.InitS3(cfg.S3Bucket, cfg.S3Region, cfg.CloudFrontURL); err != nil {
				log.Println("⚠️  S3 initialization failed:", err)
				log.Println("⚠️  Falling back to local storage")
				utils.SetStorageMode(true)
			} else {
				log.Printf("☁️  Using S3: %s (region: %s)", cfg.S3Bucket, cfg.S3Region)
			}
		} else {
			log.Println("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured")
			log.Println("⚠️  Falling back to local storage")
		}
	} else {
		log.Println("💾 Using LOCAL storage mode")
		utils.SetStorageMode(true)
	}

	// ========== START SERVER ==========
	opts := server.DefaultOptions()
	opts.CORSOrigins = cfg.CORSOrigins
	opts.MaxUploadBytes = cfg.MaxUploadBytes()
	app := server.New(db, opts)

	log.Printf("🚀 API server starting on %s", cfg.ServerAddr)
	log.Printf("💾 Storage Mode: %s", utils.GetStorageMode())

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
