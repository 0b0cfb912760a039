package messaging

import (
	"sort"
	"sync"

	"sipsafe/internal/models"
)

// UnknownSender is displayed when a sender's account cannot be resolved
const UnknownSender = "Unknown"

// NameLookupFunc resolves a user ID to a display name
type NameLookupFunc func(userID string) (string, error)

// ResolveSenderNames enriches messages with their senders' display names.
// One lookup is issued per message and the call returns only after every
// lookup has finished. A failed or empty lookup falls back to
// UnknownSender instead of failing the batch. The result is sorted by
// timestamp ascending regardless of lookup completion order.
func ResolveSenderNames(messages []models.Message, lookup NameLookupFunc) []models.MessageWithSender {
	enriched := make([]models.MessageWithSender, len(messages))

	var wg sync.WaitGroup
	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg models.Message) {
			defer wg.Done()

			name, err := lookup(msg.SenderID)
			if err != nil || name == "" {
				name = UnknownSender
			}

			enriched[i] = models.MessageWithSender{
				ID:         msg.ID,
				GroupID:    msg.GroupID,
				SenderID:   msg.SenderID,
				SenderName: name,
				Content:    msg.Content,
				Timestamp:  msg.CreatedAt,
			}
		}(i, msg)
	}
	wg.Wait()

	sort.SliceStable(enriched, func(a, b int) bool {
		if enriched[a].Timestamp.Equal(enriched[b].Timestamp) {
			return enriched[a].ID < enriched[b].ID
		}
		return enriched[a].Timestamp.Before(enriched[b].Timestamp)
	})

	return enriched
}
