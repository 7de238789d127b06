package models

import (
	"encoding/json"
	"testing"

	"querydesk/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMessageIsAppendOnly(t *testing.T) {
	session := NewSession("admin")

	first := NewUserMessage("first question")
	require.NoError(t, session.AppendMessage(first))

	second := NewAssistantMessage("first answer", &first.ID)
	require.NoError(t, session.AppendMessage(second))

	messages := session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)

	// Appending more never reorders or mutates what is already there.
	third := NewUserMessage("second question")
	require.NoError(t, session.AppendMessage(third))
	assert.Equal(t, first.ID, session.Messages()[0].ID)
	assert.Equal(t, "first question", session.Messages()[0].Content)
}

func TestAppendMessageRejectsDuplicateID(t *testing.T) {
	session := NewSession("admin")

	msg := NewUserMessage("question")
	require.NoError(t, session.AppendMessage(msg))

	dup := NewUserMessage("another")
	dup.ID = msg.ID
	assert.Error(t, session.AppendMessage(dup))
	assert.Equal(t, 1, session.Len())
}

func TestAutoExpandDefaults(t *testing.T) {
	session := NewSession("admin")

	msg := NewAssistantMessage("answer", nil)
	msg.GeneratedQuery = "SELECT 1"
	msg.Rows = []map[string]any{{"a": 1}}
	msg.Chart = json.RawMessage(`{"type": "bar"}`)
	msg.FollowUps = []string{"and then?"}
	msg.Similar = []SimilarQuestion{{Question: "before?"}}
	require.NoError(t, session.AppendMessage(msg))

	flags := session.Visibility(msg.ID)
	assert.True(t, flags.Chart)
	assert.True(t, flags.ResultTable)
	assert.True(t, flags.FollowUps)
	assert.False(t, flags.GeneratedQuery)
	assert.False(t, flags.SimilarQuestions)
}

func TestAutoExpandAbsentSections(t *testing.T) {
	session := NewSession("admin")

	msg := NewAssistantMessage("no data", nil)
	require.NoError(t, session.AppendMessage(msg))

	flags := session.Visibility(msg.ID)
	assert.Equal(t, Visibility{}, flags)
}

func TestSetVisibilityTogglesIndependently(t *testing.T) {
	session := NewSession("admin")

	msg := NewAssistantMessage("answer", nil)
	msg.Rows = []map[string]any{{"a": 1}}
	require.NoError(t, session.AppendMessage(msg))

	session.SetVisibility(msg.ID, constants.FlagGeneratedQuery, true)

	flags := session.Visibility(msg.ID)
	assert.True(t, flags.GeneratedQuery)
	assert.True(t, flags.ResultTable, "toggling one flag must not disturb another")

	session.SetVisibility(msg.ID, constants.FlagGeneratedQuery, false)
	assert.False(t, session.Visibility(msg.ID).GeneratedQuery)
}

func TestVisibilityDefaultsToHidden(t *testing.T) {
	session := NewSession("admin")
	assert.Equal(t, Visibility{}, session.Visibility("never-seen"))
}

func TestSetFeedback(t *testing.T) {
	session := NewSession("admin")

	eligible := NewAssistantMessage("answer", nil)
	eligible.GeneratedQuery = "SELECT 1"
	require.NoError(t, session.AppendMessage(eligible))

	session.SetFeedback(eligible.ID, constants.FeedbackPositive)
	assert.Equal(t, constants.FeedbackPositive, session.MessageByID(eligible.ID).Feedback)

	// Replacing the verdict keeps the two states mutually exclusive.
	session.SetFeedback(eligible.ID, constants.FeedbackNegative)
	assert.Equal(t, constants.FeedbackNegative, session.MessageByID(eligible.ID).Feedback)

	// Re-recording the same verdict is idempotent.
	session.SetFeedback(eligible.ID, constants.FeedbackNegative)
	assert.Equal(t, constants.FeedbackNegative, session.MessageByID(eligible.ID).Feedback)
}

func TestSetFeedbackIgnoresIneligibleMessages(t *testing.T) {
	session := NewSession("admin")

	user := NewUserMessage("question")
	require.NoError(t, session.AppendMessage(user))

	noQuery := NewAssistantMessage("error reply", nil)
	require.NoError(t, session.AppendMessage(noQuery))

	session.SetFeedback(user.ID, constants.FeedbackPositive)
	session.SetFeedback(noQuery.ID, constants.FeedbackPositive)
	session.SetFeedback("unknown-id", constants.FeedbackPositive)

	assert.Equal(t, constants.FeedbackNone, session.MessageByID(user.ID).Feedback)
	assert.Equal(t, constants.FeedbackNone, session.MessageByID(noQuery.ID).Feedback)
}

func TestBeginAskSerializes(t *testing.T) {
	session := NewSession("admin")

	assert.True(t, session.BeginAsk())
	assert.False(t, session.BeginAsk(), "second ask must be rejected while one is in flight")

	session.EndAsk()
	assert.True(t, session.BeginAsk())
}

func TestSetViewSurvivesRoundTrip(t *testing.T) {
	session := NewSession("admin")
	assert.Equal(t, constants.ViewConversation, session.View())

	session.SetView(constants.ViewTraining)
	assert.Equal(t, constants.ViewTraining, session.View())

	// Switching away and back does not touch the transcript.
	msg := NewUserMessage("question")
	require.NoError(t, session.AppendMessage(msg))
	session.SetView(constants.ViewSchema)
	session.SetView(constants.ViewConversation)
	assert.Equal(t, 1, session.Len())
}

func TestMessageAccessorsReturnSnapshots(t *testing.T) {
	session := NewSession("admin")

	msg := NewAssistantMessage("answer", nil)
	msg.GeneratedQuery = "SELECT 1"
	require.NoError(t, session.AppendMessage(msg))

	held := session.MessageByID(msg.ID)
	session.SetFeedback(msg.ID, constants.FeedbackNegative)
	session.SetChart(msg.ID, json.RawMessage(`{"type": "bar"}`))

	assert.Equal(t, constants.FeedbackNone, held.Feedback, "a snapshot never sees later writes")
	assert.Empty(t, held.Chart)

	held.Content = "scribbled"
	assert.Equal(t, "answer", session.MessageByID(msg.ID).Content, "writes to a snapshot never reach the store")
}

func TestSetChartReplacesSpec(t *testing.T) {
	session := NewSession("admin")

	msg := NewAssistantMessage("answer", nil)
	msg.Chart = json.RawMessage(`{"type": "bar"}`)
	require.NoError(t, session.AppendMessage(msg))

	session.SetChart(msg.ID, json.RawMessage(`{"type": "pie"}`))
	assert.JSONEq(t, `{"type": "pie"}`, string(session.MessageByID(msg.ID).Chart))

	// Unknown ids are a no-op.
	session.SetChart("unknown-id", json.RawMessage(`{}`))
}
