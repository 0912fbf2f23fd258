package service

import (
	"fmt"
	"sort"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/model"
)

// RankingService implements the numerus clausus ranking and selection
// engine. It is a pure function over an applicant pool; callers serialize
// invocations per program and re-read the pool every time.
type RankingService struct {
	quota config.QuotaConfig
}

// NewRankingService creates a new RankingService.
func NewRankingService(quota config.QuotaConfig) *RankingService {
	return &RankingService{quota: quota}
}

// Evaluate ranks the pool by grade (1.0 best) with submission time as the
// stable tie-break, then decides admission for applicationID:
//
//  1. admitted by rank when rank <= maxStudents,
//  2. otherwise by gender quota when enabled, the rank falls within the
//     quota window, and the applicant's sex is F or D.
//
// The quota never tracks already admitted gender counts; male applicants
// never receive a quota admission under the current heuristic.
func (s *RankingService) Evaluate(pool []model.Application, applicationID int64, maxStudents int) (model.RankingRecord, error) {
	ranked := make([]model.Application, 0, len(pool))
	for _, a := range pool {
		if a.HighSchoolGrade != nil {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		gi, gj := *ranked[i].HighSchoolGrade, *ranked[j].HighSchoolGrade
		if gi != gj {
			return gi < gj
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	rank := 0
	var current *model.Application
	for i := range ranked {
		if ranked[i].ID == applicationID {
			rank = i + 1
			current = &ranked[i]
			break
		}
	}
	if current == nil {
		return model.RankingRecord{}, fmt.Errorf("application %d not in ranking pool", applicationID)
	}

	rec := model.RankingRecord{
		Rank:        rank,
		Grade:       *current.HighSchoolGrade,
		TotalRanked: len(ranked),
		MaxStudents: maxStudents,
	}

	rec.AdmittedByRank = rank <= maxStudents
	if !rec.AdmittedByRank && s.quota.Enabled && rank <= maxStudents+s.quota.QuotaWindow {
		rec.AdmittedByQuota = current.Sex == model.SexFemale || current.Sex == model.SexDiverse
	}

	switch {
	case rec.AdmittedByRank:
		rec.Reason = model.SelectionRankBased
	case rec.AdmittedByQuota:
		rec.Reason = model.SelectionGenderQuota
	default:
		rec.Reason = model.SelectionInsufficientRank
	}
	return rec, nil
}
