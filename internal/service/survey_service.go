package service

import (
	"health_survey_backend/internal/model"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/fixture"
)

type SurveyService struct {
	Survey *fixture.Survey
}

func NewSurveyService(survey *fixture.Survey) *SurveyService {
	return &SurveyService{Survey: survey}
}

func (s *SurveyService) GetSurvey() fixture.Document {
	return s.Survey.Document()
}

func (s *SurveyService) GetComparison(index int) ([]model.ComparisonEntry, error) {
	entries := s.Survey.Comparison(index)
	if len(entries) == 0 {
		return nil, util.ErrComparisonMissing
	}
	return entries, nil
}
