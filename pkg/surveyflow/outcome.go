package surveyflow

import (
	"fmt"

	"health_survey_backend/internal/model"
	"health_survey_backend/pkg/fixture"
)

type OutcomeKind int

const (
	Success OutcomeKind = iota + 1
	Failure
)

// Outcome 提交结果：Success 带 ID，Failure 带面向受访者的提示
type Outcome struct {
	Kind    OutcomeKind
	ID      string
	Message string
}

func (o Outcome) Succeeded() bool {
	return o.Kind == Success
}

const (
	SuccessBanner = "สำเร็จ! ข้อมูลของคุณถูกบันทึกเรียบร้อยแล้ว"
	FailureBanner = "เกิดข้อผิดพลาด:"

	failureFormat         = "การส่งข้อมูลล้มเหลว: %s. กรุณาลองอีกครั้ง."
	answerCountFormat     = "คุณตอบคำถามทั้งหมด %d ข้อ"
	ageBracketFormat      = "ช่วงอายุของคุณ: %s"
	ageUnknownLine        = "ไม่ได้ระบุอายุ"
	condomPositiveLine    = "คุณให้ความสำคัญกับการใช้ถุงยาง 👍"
	condomReminderLine    = "อย่าลืมป้องกันเมื่อมีเพศสัมพันธ์นะ"
	sourceReferenceFormat = "Source Reference: %s"
)

func failure(err error) Outcome {
	return Outcome{Kind: Failure, Message: fmt.Sprintf(failureFormat, err.Error())}
}

// Completion 结束页数据，成功和失败共用同一个页面
type Completion struct {
	Outcome      Outcome
	AnswerCount  int
	AgeBracket   string
	UsesCondoms  bool
	SourceSuffix *string
}

func buildCompletion(rules fixture.SummaryRules, answers model.AnswerSet, suffix *string, outcome Outcome) Completion {
	c := Completion{
		Outcome:      outcome,
		AnswerCount:  len(answers),
		SourceSuffix: copySuffix(suffix),
	}
	if age, ok := answers[rules.AgeQuestion]; ok {
		c.AgeBracket = age.String()
	}
	if condom, ok := answers[rules.CondomQuestion]; ok && !condom.IsMultiple() {
		c.UsesCondoms = condom.Text() == rules.CondomPositiveOption
	}
	return c
}

func (c Completion) Banner() string {
	if c.Outcome.Succeeded() {
		return SuccessBanner
	}
	return FailureBanner + " " + c.Outcome.Message
}

func (c Completion) Lines() []string {
	lines := []string{fmt.Sprintf(answerCountFormat, c.AnswerCount)}

	if c.AgeBracket != "" {
		lines = append(lines, fmt.Sprintf(ageBracketFormat, c.AgeBracket))
	} else {
		lines = append(lines, ageUnknownLine)
	}

	if c.UsesCondoms {
		lines = append(lines, condomPositiveLine)
	} else {
		lines = append(lines, condomReminderLine)
	}

	if c.SourceSuffix != nil {
		lines = append(lines, fmt.Sprintf(sourceReferenceFormat, *c.SourceSuffix))
	}
	return lines
}
