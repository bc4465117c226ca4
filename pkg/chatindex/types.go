// Package chatindex searches a chat platform's channels, direct messages,
// and message bodies over a fixed SQLite schema (User, Channel,
// Conversation, Message).
package chatindex

// Kind distinguishes the three result shapes a chat search can return.
type Kind string

const (
	KindChannel Kind = "channel"
	KindDM      Kind = "dm"
	KindMessage Kind = "message"
)

// Result is one ranked chat search hit. Fields that do not apply to a
// given Kind are left at their zero value; the kind-specific ones and
// Snippet carry omitempty, so they are dropped from the JSON wire form.
type Result struct {
	Kind           Kind   `json:"kind"`
	ID             string `json:"id"`
	Score          int    `json:"score"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	Snippet        string `json:"snippet,omitempty"`
	CreatedAt      string `json:"createdAt"`
	ConversationID string `json:"conversationId"`
	ThreadKind     string `json:"threadKind"`
	ChannelSlug    string `json:"channelSlug,omitempty"`
	ChannelName    string `json:"channelName,omitempty"`
	OtherUserID    string `json:"otherUserId,omitempty"`
	OtherUserName  string `json:"otherUserName,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
}

const (
	channelScoreBonus = 50
	dmScoreBonus      = 44
	messageScoreBonus = 30

	dmCandidateLimit = 500
)

// resultKey identifies the entity a result refers to, independent of which
// query surfaced it, so duplicate hits can be deduplicated by score.
func resultKey(r Result) string {
	switch r.Kind {
	case KindChannel:
		if r.ConversationID != "" {
			return "channel:" + r.ConversationID
		}
		if r.ChannelSlug != "" {
			return "channel:" + r.ChannelSlug
		}
		return "channel:" + r.ID
	case KindDM:
		if r.OtherUserID != "" {
			return "dm:" + r.OtherUserID
		}
		if r.ConversationID != "" {
			return "dm:" + r.ConversationID
		}
		return "dm:" + r.ID
	default:
		if r.MessageID != "" {
			return "message:" + r.MessageID
		}
		return "message:" + r.ID
	}
}

// dedupeResults keeps only the highest-scoring result per entity key.
func dedupeResults(results []Result) []Result {
	bestByKey := make(map[string]Result, len(results))
	order := make([]string, 0, len(results))

	for _, r := range results {
		key := resultKey(r)
		existing, ok := bestByKey[key]
		if !ok {
			order = append(order, key)
			bestByKey[key] = r
			continue
		}
		if r.Score > existing.Score {
			bestByKey[key] = r
		}
	}

	deduped := make([]Result, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, bestByKey[key])
	}
	return deduped
}
