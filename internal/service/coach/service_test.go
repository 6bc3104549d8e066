package coach

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

func TestBuildHistoryMessagesMapsSenders(t *testing.T) {
	history := buildHistoryMessages([]conversation.Message{
		{Sender: conversation.SenderUser, Text: "hello"},
		{Sender: conversation.SenderAI, Text: "hi"},
		{Sender: "system", Text: "ignored"},
	})

	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "hi", history[1].Content)
}

func TestBuildHistoryMessagesCapsLength(t *testing.T) {
	var msgs []conversation.Message
	for i := 0; i < historyLimit+10; i++ {
		msgs = append(msgs, conversation.Message{
			Sender: conversation.SenderUser,
			Text:   fmt.Sprintf("turn %d", i),
		})
	}

	history := buildHistoryMessages(msgs)
	require.Len(t, history, historyLimit)
	assert.Equal(t, fmt.Sprintf("turn %d", 10), history[0].Content)
}

func TestBuildHistoryMessagesEmpty(t *testing.T) {
	assert.Nil(t, buildHistoryMessages(nil))
}
