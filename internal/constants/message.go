package constants

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
)

type FeedbackType string

const (
	FeedbackNone     FeedbackType = ""
	FeedbackPositive FeedbackType = "positive"
	FeedbackNegative FeedbackType = "negative"
)

type ViewMode string

const (
	ViewConversation ViewMode = "conversation"
	ViewHistory      ViewMode = "history"
	ViewTraining     ViewMode = "training"
	ViewSchema       ViewMode = "schema"
)

// VisibilityFlag names the independent per-message show/hide toggles.
type VisibilityFlag string

const (
	FlagGeneratedQuery   VisibilityFlag = "generated_query"
	FlagResultTable      VisibilityFlag = "result_table"
	FlagChart            VisibilityFlag = "chart"
	FlagSimilarQuestions VisibilityFlag = "similar_questions"
	FlagFollowUps        VisibilityFlag = "follow_ups"
)

const (
	ChartTypeAuto    = "auto"
	ChartTypeBar     = "bar"
	ChartTypeLine    = "line"
	ChartTypeScatter = "scatter"
	ChartTypePie     = "pie"
	ChartTypeHeatmap = "heatmap"
)

const (
	ExportFormatCSV   = "csv"
	ExportFormatJSON  = "json"
	ExportFormatExcel = "excel"
)

// Rows displayed per result table before truncation kicks in.
const TableDisplayRowLimit = 10

// Similar prior questions shown per message.
const SimilarQuestionDisplayLimit = 3
