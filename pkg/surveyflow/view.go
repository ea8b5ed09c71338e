package surveyflow

import "health_survey_backend/internal/model"

// View 某一时刻的界面快照
type View struct {
	Phase      Phase
	Index      int
	Total      int
	Question   model.Question
	Revealed   bool
	Selected   []string
	Comparison []model.ComparisonEntry
	Progress   float64
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Phase:    s.phase,
		Index:    s.index,
		Total:    s.survey.Len(),
		Revealed: s.revealed,
		Progress: s.progress(),
	}

	if s.phase == InProgress {
		v.Question, _ = s.survey.Question(s.index)
		if answer, ok := s.answers[s.index]; ok {
			if answer.IsMultiple() {
				v.Selected = answer.Choices()
			} else {
				v.Selected = []string{answer.Text()}
			}
		}
		if s.revealed {
			v.Comparison = append([]model.ComparisonEntry(nil), s.comparison...)
		}
	}
	return v
}
