// Package surveyflow 驱动单个受访者完成问卷：逐题作答、展示对比数据、最后一次性提交。
package surveyflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"health_survey_backend/internal/model"
	"health_survey_backend/pkg/fixture"
)

type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Submitting
	Completed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrEmptySurvey       = errors.New("survey has no questions")
	ErrAlreadyStarted    = errors.New("survey already started")
	ErrNotInProgress     = errors.New("survey is not in progress")
	ErrWrongQuestionKind = errors.New("operation does not match the question type")
	ErrUnknownOption     = errors.New("option is not offered by the current question")
	ErrAlreadyRevealed   = errors.New("answer already confirmed for this question")
	ErrNotRevealed       = errors.New("current question has not been answered")
	ErrNotCompleted      = errors.New("survey is not completed")

	// ErrEmptySelection 多选题未选任何选项就确认
	ErrEmptySelection = errors.New("กรุณาเลือกอย่างน้อยหนึ่งตัวเลือก")
)

// Survey 问卷静态数据，*fixture.Survey 实现了该接口
type Survey interface {
	Len() int
	Question(index int) (model.Question, bool)
	Comparison(index int) []model.ComparisonEntry
	Summary() fixture.SummaryRules
}

// Submitter 每个会话只调用一次，返回存储层生成的 id
type Submitter interface {
	Submit(ctx context.Context, answers model.AnswerSet, sourceSuffix *string) (string, error)
}

type Session struct {
	mu sync.Mutex

	survey    Survey
	submitter Submitter
	suffix    *string

	phase      Phase
	index      int
	revealed   bool
	answers    model.AnswerSet
	comparison []model.ComparisonEntry
	outcome    Outcome
	completion Completion
}

// NewSession sourceSuffix 为空串表示没有来源标记
func NewSession(survey Survey, submitter Submitter, sourceSuffix string) *Session {
	s := &Session{
		survey:    survey,
		submitter: submitter,
	}
	if sourceSuffix != "" {
		s.suffix = &sourceSuffix
	}
	return s
}

func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != NotStarted {
		return ErrAlreadyStarted
	}
	if s.survey.Len() == 0 {
		return ErrEmptySurvey
	}

	s.phase = InProgress
	s.index = 0
	s.revealed = false
	s.answers = model.AnswerSet{}
	return nil
}

// Select 单选题作答，展示对比数据前后都可以改选
func (s *Session) Select(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentQuestion()
	if err != nil {
		return err
	}
	if q.AllowsMultiple {
		return ErrWrongQuestionKind
	}
	if !q.HasOption(option) {
		return ErrUnknownOption
	}

	s.answers[s.index] = model.Single(option)
	s.reveal()
	return nil
}

// Toggle 多选题增删选项，选项保持点击顺序；集合为空时移除该题答案
func (s *Session) Toggle(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentQuestion()
	if err != nil {
		return err
	}
	if !q.AllowsMultiple {
		return ErrWrongQuestionKind
	}
	if s.revealed {
		return ErrAlreadyRevealed
	}
	if !q.HasOption(option) {
		return ErrUnknownOption
	}

	choices := s.answers[s.index].Choices()
	if i := slices.Index(choices, option); i >= 0 {
		choices = slices.Delete(choices, i, i+1)
	} else {
		choices = append(choices, option)
	}

	if len(choices) == 0 {
		delete(s.answers, s.index)
		return nil
	}
	s.answers[s.index] = model.Multiple(choices...)
	return nil
}

// Confirm 多选题确认后展示对比数据，已展示时为空操作
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.currentQuestion()
	if err != nil {
		return err
	}
	if !q.AllowsMultiple {
		return ErrWrongQuestionKind
	}
	if s.revealed {
		return nil
	}
	if len(s.answers[s.index].Choices()) == 0 {
		return ErrEmptySelection
	}

	s.reveal()
	return nil
}

// Advance 进入下一题；最后一题时提交答案并进入结束状态。
// 提交中或已结束时重复调用不做任何事。
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()

	switch s.phase {
	case Submitting, Completed:
		s.mu.Unlock()
		return nil
	case NotStarted:
		s.mu.Unlock()
		return ErrNotInProgress
	}

	if !s.revealed {
		s.mu.Unlock()
		return ErrNotRevealed
	}

	if s.index < s.survey.Len()-1 {
		s.index++
		s.revealed = false
		s.comparison = nil
		s.mu.Unlock()
		return nil
	}

	s.phase = Submitting
	answers := s.answers.Clone()
	suffix := s.suffix
	s.mu.Unlock()

	id, err := s.submitter.Submit(ctx, answers, suffix)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.outcome = failure(err)
	} else {
		s.outcome = Outcome{Kind: Success, ID: id}
	}
	s.completion = buildCompletion(s.survey.Summary(), answers, suffix, s.outcome)
	s.phase = Completed
	s.comparison = nil
	return nil
}

// Progress 只统计已完成的题目，最后一题时为 (n-1)/n，结束后为 1
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress()
}

func (s *Session) progress() float64 {
	switch s.phase {
	case InProgress, Submitting:
		return float64(s.index) / float64(s.survey.Len())
	case Completed:
		return 1
	default:
		return 0
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Answers 当前答案的副本
func (s *Session) Answers() model.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Completion 只有在结束状态下才可用
func (s *Session) Completion() (Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Completed {
		return Completion{}, ErrNotCompleted
	}
	c := s.completion
	c.SourceSuffix = copySuffix(c.SourceSuffix)
	return c, nil
}

func (s *Session) currentQuestion() (model.Question, error) {
	if s.phase != InProgress {
		return model.Question{}, ErrNotInProgress
	}
	q, ok := s.survey.Question(s.index)
	if !ok {
		return model.Question{}, fmt.Errorf("question index %d out of range", s.index)
	}
	return q, nil
}

func (s *Session) reveal() {
	s.comparison = s.survey.Comparison(s.index)
	s.revealed = true
}

func copySuffix(suffix *string) *string {
	if suffix == nil {
		return nil
	}
	v := *suffix
	return &v
}
