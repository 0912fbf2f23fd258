// Command seed-programs loads the study program catalog into the database.
// Existing program codes are skipped, so the seeder is safe to re-run.
package main

import (
	"context"
	"errors"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/database"
	"github.com/riedtal/admission-backend/internal/logger"
	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/repository"
)

func intPtr(n int) *int { return &n }

var programs = []model.StudyProgram{
	{Code: "INF", Name: "Informatik", AdmissionType: model.AdmissionOpen},
	{Code: "MB", Name: "Maschinenbau", AdmissionType: model.AdmissionOpen},
	{Code: "MED", Name: "Medizin", AdmissionType: model.AdmissionNumerusClausus, MaxStudents: intPtr(50)},
	{Code: "PSY", Name: "Psychologie", AdmissionType: model.AdmissionNumerusClausus, MaxStudents: intPtr(30)},
	{Code: "BWL", Name: "Betriebswirtschaftslehre", AdmissionType: model.AdmissionEntranceExam},
	{Code: "KUN", Name: "Kunst und Design", AdmissionType: model.AdmissionEntranceExam},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	repo := repository.NewStudyProgramRepository(pool)

	created := 0
	for i := range programs {
		p := programs[i]
		err := repo.Create(ctx, &p)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateProgramCode) {
				log.Info().Str("code", p.Code).Msg("Program already exists, skipping")
				continue
			}
			log.Fatal().Err(err).Str("code", p.Code).Msg("Failed to create program")
		}
		created++
		log.Info().
			Str("code", p.Code).
			Str("admission_type", string(p.AdmissionType)).
			Msg("Program created")
	}

	log.Info().Int("created", created).Msg("Seeding complete")
}
