package messaging

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"sipsafe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMessages(n int) []models.Message {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	messages := make([]models.Message, n)
	for i := range messages {
		messages[i] = models.Message{
			ID:        fmt.Sprintf("m%03d", i),
			GroupID:   "g1",
			SenderID:  fmt.Sprintf("u%d", i%3),
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return messages
}

func TestResolveSenderNamesEmptyInput(t *testing.T) {
	result := ResolveSenderNames(nil, func(string) (string, error) {
		t.Fatal("lookup must not be called for an empty batch")
		return "", nil
	})
	assert.Empty(t, result)
}

func TestResolveSenderNamesResolvesEveryMessage(t *testing.T) {
	messages := makeMessages(9)

	var calls int64
	result := ResolveSenderNames(messages, func(userID string) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "name-" + userID, nil
	})

	require.Len(t, result, 9)
	// One lookup per message, all completed before returning
	assert.Equal(t, int64(9), atomic.LoadInt64(&calls))
	for _, msg := range result {
		assert.Equal(t, "name-"+msg.SenderID, msg.SenderName)
	}
}

func TestResolveSenderNamesMasksFailures(t *testing.T) {
	messages := makeMessages(3)

	result := ResolveSenderNames(messages, func(userID string) (string, error) {
		if userID == "u1" {
			return "", errors.New("user document missing")
		}
		return "resolved", nil
	})

	require.Len(t, result, 3)
	for _, msg := range result {
		if msg.SenderID == "u1" {
			assert.Equal(t, UnknownSender, msg.SenderName)
		} else {
			assert.Equal(t, "resolved", msg.SenderName)
		}
	}
}

func TestResolveSenderNamesEmptyNameFallsBack(t *testing.T) {
	messages := makeMessages(1)

	result := ResolveSenderNames(messages, func(string) (string, error) {
		return "", nil
	})

	require.Len(t, result, 1)
	assert.Equal(t, UnknownSender, result[0].SenderName)
}

func TestResolveSenderNamesSortedDespiteRacyCompletion(t *testing.T) {
	messages := makeMessages(50)
	// Shuffle the input so sorting is actually exercised
	rng := rand.New(rand.NewSource(5))
	rng.Shuffle(len(messages), func(a, b int) {
		messages[a], messages[b] = messages[b], messages[a]
	})

	result := ResolveSenderNames(messages, func(userID string) (string, error) {
		// Random delays interleave lookup completion order
		time.Sleep(time.Duration(rand.Int63n(3)) * time.Millisecond)
		return userID, nil
	})

	require.Len(t, result, 50)
	for i := 1; i < len(result); i++ {
		assert.False(t, result[i].Timestamp.Before(result[i-1].Timestamp),
			"messages out of order at index %d", i)
	}
}
