package util

// 提交接口的响应文案，客户端依赖这些固定字符串
const (
	MsgSubmitSuccess = "Survey submitted successfully!"
	MsgInvalidSurvey = "Invalid survey data submitted."
	MsgSubmitFailed  = "Failed to submit survey."
)

// 未携带来源标记时日志中的占位
const NoSourceSuffix = "None"
