package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/response"
)

const (
	programCacheKey = "cache:study_programs"
	programCacheTTL = 5 * time.Minute
)

// ProgramLister lists the offered study programs.
type ProgramLister interface {
	List(ctx context.Context) ([]model.StudyProgram, error)
}

// ProgramHandler serves the study program catalog. The catalog only changes
// between admission periods, so the list is cached in Redis.
type ProgramHandler struct {
	programs ProgramLister
	rdb      *redis.Client
	log      zerolog.Logger
}

func NewProgramHandler(programs ProgramLister, rdb *redis.Client, log zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{
		programs: programs,
		rdb:      rdb,
		log:      log.With().Str("component", "program_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/study-programs
func (h *ProgramHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.rdb.Get(ctx, programCacheKey).Bytes(); err == nil {
		var programs []model.StudyProgram
		if err := json.Unmarshal(cached, &programs); err == nil {
			response.Success(c, http.StatusOK, gin.H{"study_programs": programs})
			return
		}
	}

	programs, err := h.programs.List(ctx)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if programs == nil {
		programs = []model.StudyProgram{}
	}

	if payload, err := json.Marshal(programs); err == nil {
		if err := h.rdb.Set(ctx, programCacheKey, payload, programCacheTTL).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Failed to cache study programs")
		}
	}

	response.Success(c, http.StatusOK, gin.H{"study_programs": programs})
}
