package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var ErrInvalidAnswerValue = errors.New("answer value must be a string or an array of strings")

// AnswerValue 单选题为单个字符串，多选题为按选择顺序排列的字符串集合
// swagger:model
type AnswerValue struct {
	multiple bool
	text     string
	choices  []string
}

func Single(option string) AnswerValue {
	return AnswerValue{text: option}
}

func Multiple(options ...string) AnswerValue {
	return AnswerValue{multiple: true, choices: slices.Clone(options)}
}

func (v AnswerValue) IsMultiple() bool {
	return v.multiple
}

// Text 多选题返回空串
func (v AnswerValue) Text() string {
	return v.text
}

func (v AnswerValue) Choices() []string {
	return slices.Clone(v.choices)
}

func (v AnswerValue) Contains(option string) bool {
	if v.multiple {
		return slices.Contains(v.choices, option)
	}
	return v.text == option
}

func (v AnswerValue) Equal(other AnswerValue) bool {
	if v.multiple != other.multiple {
		return false
	}
	if v.multiple {
		return slices.Equal(v.choices, other.choices)
	}
	return v.text == other.text
}

func (v AnswerValue) String() string {
	if v.multiple {
		return fmt.Sprint(v.choices)
	}
	return v.text
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.multiple {
		if v.choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.choices)
	}
	return json.Marshal(v.text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidAnswerValue
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return ErrInvalidAnswerValue
		}
		*v = Single(text)
		return nil
	case '[':
		var choices []string
		if err := json.Unmarshal(data, &choices); err != nil {
			return ErrInvalidAnswerValue
		}
		*v = AnswerValue{multiple: true, choices: choices}
		return nil
	default:
		return ErrInvalidAnswerValue
	}
}

func (v AnswerValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.multiple {
		choices := v.choices
		if choices == nil {
			choices = []string{}
		}
		return bson.MarshalValue(choices)
	}
	return bson.MarshalValue(v.text)
}

func (v *AnswerValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.String:
		*v = Single(raw.StringValue())
		return nil
	case bsontype.Array:
		values, err := raw.Array().Values()
		if err != nil {
			return err
		}
		choices := make([]string, 0, len(values))
		for _, item := range values {
			text, ok := item.StringValueOK()
			if !ok {
				return ErrInvalidAnswerValue
			}
			choices = append(choices, text)
		}
		*v = AnswerValue{multiple: true, choices: choices}
		return nil
	default:
		return ErrInvalidAnswerValue
	}
}

// AnswerSet 以题目下标为键，只在线路上转换为字符串键
type AnswerSet map[int]AnswerValue

func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		v.choices = slices.Clone(v.choices)
		out[k] = v
	}
	return out
}

func (s AnswerSet) Wire() map[string]AnswerValue {
	out := make(map[string]AnswerValue, len(s))
	for k, v := range s {
		out[strconv.Itoa(k)] = v
	}
	return out
}
