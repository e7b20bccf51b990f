package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-assessor/internal/config"
	"alfredoptarigan/interview-assessor/internal/middleware"
	"alfredoptarigan/interview-assessor/internal/repositories"
	"alfredoptarigan/interview-assessor/internal/services"
)

// Seeds one profile per resume so question generation and submissions can
// be exercised locally. Usage: go run ./scripts/seed_profiles.go cv1.pdf cv2.txt
func main() {
	tokenTTL := flag.Duration("ttl", 24*time.Hour, "lifetime of the printed dev tokens")
	flag.Parse()

	log.Println("🚀 Starting profile seeding...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	profileRepo := repositories.NewProfileRepository(db)
	parser := services.NewResumeParserService()
	extractor := services.NewSkillExtractor()

	var auth *middleware.Authenticator
	if cfg.Auth.JWTSecret != "" {
		auth = middleware.NewAuthenticator(cfg.Auth.JWTSecret)
	} else {
		log.Println("⚠️  JWT_SECRET is empty, no tokens will be printed")
	}

	resumes := flag.Args()
	if len(resumes) == 0 {
		resumes, _ = filepath.Glob("./reference_docs/*.pdf")
	}

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for _, path := range resumes {
		log.Printf("\n📄 Processing: %s", path)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		text, err := parser.ExtractText(path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		skills := extractor.Extract(text)
		if len(skills) == 0 {
			log.Printf("   ⚠️  No known skills found, skipping...")
			failCount++
			continue
		}
		log.Printf("   ✅ Found %d skills: %s", len(skills), strings.Join(skills, ", "))

		profile, err := profileRepo.UpdateSkills(ctx, uuid.New(), skills)
		if err != nil {
			log.Printf("   ❌ Failed to store profile: %v", err)
			failCount++
			continue
		}
		log.Printf("   👤 Profile: %s", profile.ID)

		if auth != nil {
			token, err := auth.GenerateToken(profile.ID, *tokenTTL)
			if err != nil {
				log.Printf("   ❌ Failed to sign token: %v", err)
			} else {
				log.Printf("   🔑 Token: %s", token)
			}
		}
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Seeding Summary:")
	log.Printf("   ✅ Successful: %d profiles", successCount)
	log.Printf("   ❌ Failed: %d files", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some resumes could not be seeded. Please check the logs above.")
		os.Exit(1)
	}
}
