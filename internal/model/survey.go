package model

// swagger:model
type Question struct {
	ID             int      `json:"id" yaml:"id"`
	Category       string   `json:"category" yaml:"category"`
	Prompt         string   `json:"question" yaml:"prompt"`
	Options        []string `json:"options" yaml:"options"`
	AllowsMultiple bool     `json:"multipleChoice" yaml:"allows_multiple"`
}

func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// ComparisonEntry 图表展示用的静态数据，不来自真实提交
// swagger:model
type ComparisonEntry struct {
	Label      string `json:"name" yaml:"label"`
	Percentage int    `json:"value" yaml:"percentage"`
}
