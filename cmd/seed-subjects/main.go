package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/rtuhub/sgpa-backend/internal/database"
	"github.com/rtuhub/sgpa-backend/internal/logger"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/rtuhub/sgpa-backend/internal/service"
)

type seedSubject struct {
	SubjectName string  `json:"subject_name"`
	Branch      string  `json:"branch"`
	Semester    int     `json:"semester"`
	Credits     float64 `json:"credits"`
	IsLab       bool    `json:"is_lab"`
	SubjectCode string  `json:"subject_code"`
}

func main() {
	var seedFile string
	flag.StringVar(&seedFile, "file", "data/subjects.json", "Path to subject seed file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectRepo := repository.NewSubjectRepository(pool)
	subjectService := service.NewSubjectService(subjectRepo, log)

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", seedFile).Msg("Failed to read seed file")
	}

	var seeds []seedSubject
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal().Err(err).Str("file", seedFile).Msg("Seed file is not valid JSON")
	}

	fmt.Printf("=== Seeding %d Subjects ===\n", len(seeds))

	successCount := 0
	for i, s := range seeds {
		sub := &model.CatalogSubject{
			SubjectName: s.SubjectName,
			Branch:      s.Branch,
			Semester:    s.Semester,
			Credits:     s.Credits,
			IsLab:       s.IsLab,
			SubjectCode: s.SubjectCode,
		}
		if err := subjectService.Create(ctx, sub); err != nil {
			fmt.Printf("Error creating subject %q (%s sem %d): %v\n", s.SubjectName, s.Branch, s.Semester, err)
			continue
		}
		successCount++
		if (i+1)%25 == 0 {
			fmt.Printf("Created %d subjects...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d subjects.\n", successCount, len(seeds))
}
