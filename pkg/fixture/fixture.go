package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"health_survey_backend/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed survey.yaml
var embedded []byte

// Document 问卷的完整静态数据，既是 YAML 文件格式也是 /api/survey 的响应格式
type Document struct {
	Title       string                          `json:"title" yaml:"title"`
	Summary     SummaryRules                    `json:"summary" yaml:"summary"`
	Questions   []model.Question                `json:"questions" yaml:"questions"`
	Comparisons map[int][]model.ComparisonEntry `json:"comparisons" yaml:"comparisons"`
}

// SummaryRules 结束页用到的题目下标
type SummaryRules struct {
	AgeQuestion          int    `json:"ageQuestion" yaml:"age_question"`
	CondomQuestion       int    `json:"condomQuestion" yaml:"condom_question"`
	CondomPositiveOption string `json:"condomPositiveOption" yaml:"condom_positive_option"`
}

// Survey 加载后只读，所有访问器返回副本
type Survey struct {
	doc Document
}

func Default() *Survey {
	s, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded survey fixture is invalid: %v", err))
	}
	return s
}

// Load path 为空时返回内置问卷
func Load(path string) (*Survey, error) {
	if path == "" {
		return Parse(embedded)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Survey, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse survey fixture: %w", err)
	}
	return New(doc)
}

func New(doc Document) (*Survey, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return &Survey{doc: copyDocument(doc)}, nil
}

// Validate 对比数据和结束页规则引用的下标都必须存在
func Validate(doc Document) error {
	var errs []error

	if len(doc.Questions) == 0 {
		errs = append(errs, errors.New("survey has no questions"))
	}

	for i, q := range doc.Questions {
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("question %d (id %d) has no options", i, q.ID))
		}
		seen := make(map[string]bool, len(q.Options))
		for _, option := range q.Options {
			if seen[option] {
				errs = append(errs, fmt.Errorf("question %d (id %d) repeats option %q", i, q.ID, option))
			}
			seen[option] = true
		}
	}

	for _, index := range sortedKeys(doc.Comparisons) {
		if index < 0 || index >= len(doc.Questions) {
			errs = append(errs, fmt.Errorf("comparison dataset refers to missing question index %d", index))
		}
	}

	if !validIndex(doc.Summary.AgeQuestion, doc.Questions) {
		errs = append(errs, fmt.Errorf("summary age question %d does not exist", doc.Summary.AgeQuestion))
	}
	if !validIndex(doc.Summary.CondomQuestion, doc.Questions) {
		errs = append(errs, fmt.Errorf("summary condom question %d does not exist", doc.Summary.CondomQuestion))
	} else if !doc.Questions[doc.Summary.CondomQuestion].HasOption(doc.Summary.CondomPositiveOption) {
		errs = append(errs, fmt.Errorf("summary option %q is not an option of question %d", doc.Summary.CondomPositiveOption, doc.Summary.CondomQuestion))
	}

	return errors.Join(errs...)
}

func validIndex(index int, questions []model.Question) bool {
	return index >= 0 && index < len(questions)
}

func sortedKeys(m map[int][]model.ComparisonEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func copyDocument(doc Document) Document {
	out := Document{
		Title:       doc.Title,
		Summary:     doc.Summary,
		Questions:   make([]model.Question, len(doc.Questions)),
		Comparisons: make(map[int][]model.ComparisonEntry, len(doc.Comparisons)),
	}
	for i, q := range doc.Questions {
		q.Options = slices.Clone(q.Options)
		out.Questions[i] = q
	}
	for k, v := range doc.Comparisons {
		out.Comparisons[k] = slices.Clone(v)
	}
	return out
}

func (s *Survey) Title() string {
	return s.doc.Title
}

func (s *Survey) Len() int {
	return len(s.doc.Questions)
}

func (s *Survey) Question(index int) (model.Question, bool) {
	if !validIndex(index, s.doc.Questions) {
		return model.Question{}, false
	}
	q := s.doc.Questions[index]
	q.Options = slices.Clone(q.Options)
	return q, true
}

// Comparison 没有对比数据的题目返回 nil
func (s *Survey) Comparison(index int) []model.ComparisonEntry {
	return slices.Clone(s.doc.Comparisons[index])
}

func (s *Survey) Summary() SummaryRules {
	return s.doc.Summary
}

func (s *Survey) Document() Document {
	return copyDocument(s.doc)
}
