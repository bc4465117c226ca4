package chatindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openwork/search-adapters/pkg/searchutil"
)

// ErrDatabaseNotFound is returned by Search when the configured SQLite file
// does not exist, checked fresh on every call rather than once at Open.
var ErrDatabaseNotFound = errors.New("database file not found")

// ErrUserNotFound is returned by Search when userID does not exist in the
// User table.
var ErrUserNotFound = errors.New("user does not exist")

// Store is a read-only view over the chat platform's SQLite database.
type Store struct {
	path string
	db   *sql.DB
}

// Open prepares a Store for the SQLite file at path. The file is not
// required to exist yet: reachability is checked fresh on every request
// (see Reachable and Search), mirroring the original adapter's per-request
// database open rather than failing the whole process at startup if the
// file hasn't been created yet.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reachable reports whether the backing SQLite file currently exists and
// answers a ping, for /health reporting.
func (s *Store) Reachable(ctx context.Context) bool {
	if err := s.requireDatabase(); err != nil {
		return false
	}
	return s.db.PingContext(ctx) == nil
}

// requireDatabase returns ErrDatabaseNotFound when the SQLite file has
// disappeared or was never created, checked fresh on every call rather than
// once at startup.
func (s *Store) requireDatabase() error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, s.path)
	}
	return nil
}

func (s *Store) requireUser(ctx context.Context, userID string) error {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT "id" FROM "User" WHERE "id" = ? LIMIT 1`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// Search runs the channel, DM, and message fan-out for userID and query,
// deduplicates by entity, sorts by score then recency, and returns the top
// `limit` results.
func (s *Store) Search(ctx context.Context, userID, query string, limit int) ([]Result, error) {
	if err := s.requireDatabase(); err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	bucket := limit / 2
	if bucket < 10 {
		bucket = 10
	}
	channelLimit := clamp(bucket/3, 4, 10)
	dmLimit := clamp(bucket/4, 4, 10)
	messageLimit := int(float64(bucket) * 1.8)
	if messageLimit < 10 {
		messageLimit = 10
	}

	needleLower := strings.ToLower(query)

	channels, err := s.searchChannels(ctx, needleLower, channelLimit)
	if err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}

	dms, err := s.searchDMs(ctx, userID, needleLower, dmLimit)
	if err != nil {
		return nil, fmt.Errorf("search dms: %w", err)
	}

	messages, err := s.searchMessages(ctx, userID, needleLower, messageLimit)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	all := make([]Result, 0, len(channels)+len(dms)+len(messages))
	all = append(all, channels...)
	all = append(all, dms...)
	all = append(all, messages...)

	merged := dedupeResults(all)
	sortResults(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *Store) searchChannels(ctx context.Context, needleLower string, limit int) ([]Result, error) {
	likeQuery := "%" + needleLower + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
		  c."id" AS conversation_id,
		  c."createdAt" AS created_at,
		  ch."name" AS channel_name,
		  ch."slug" AS channel_slug
		FROM "Conversation" c
		JOIN "Channel" ch ON ch."id" = c."channelId"
		WHERE c."type" = 'CHANNEL'
		  AND (lower(ch."name") LIKE ? OR lower(ch."slug") LIKE ?)
		ORDER BY c."createdAt" DESC
		LIMIT ?
	`, likeQuery, likeQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var conversationID, createdAt string
		var channelName, channelSlug sql.NullString
		if err := rows.Scan(&conversationID, &createdAt, &channelName, &channelSlug); err != nil {
			return nil, err
		}

		name := orDefault(channelName.String, "channel")
		slugValue := channelSlug.String

		score := maxInt(
			searchutil.ScoreTextMatch(name, needleLower),
			searchutil.ScoreTextMatch(slugValue, needleLower),
		)

		results = append(results, Result{
			Kind:           KindChannel,
			ID:             conversationID,
			Score:          score + channelScoreBonus,
			Title:          "#" + name,
			Subtitle:       "Channel · " + slugValue,
			CreatedAt:      createdAt,
			ConversationID: conversationID,
			ThreadKind:     "channel",
			ChannelSlug:    slugValue,
			ChannelName:    name,
		})
	}
	return results, rows.Err()
}

func (s *Store) searchDMs(ctx context.Context, userID, needleLower string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
		  c."id" AS conversation_id,
		  c."createdAt" AS created_at,
		  c."dmUserAId" AS dm_user_a_id,
		  c."dmUserBId" AS dm_user_b_id,
		  ua."id" AS user_a_id,
		  ua."displayName" AS user_a_name,
		  ub."id" AS user_b_id,
		  ub."displayName" AS user_b_name
		FROM "Conversation" c
		LEFT JOIN "User" ua ON ua."id" = c."dmUserAId"
		LEFT JOIN "User" ub ON ub."id" = c."dmUserBId"
		WHERE c."type" = 'DM'
		  AND (c."dmUserAId" = ? OR c."dmUserBId" = ?)
		LIMIT ?
	`, userID, userID, dmCandidateLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var conversationID, createdAt string
		var dmUserA, dmUserB sql.NullString
		var userAID, userAName, userBID, userBName sql.NullString
		if err := rows.Scan(&conversationID, &createdAt, &dmUserA, &dmUserB, &userAID, &userAName, &userBID, &userBName); err != nil {
			return nil, err
		}

		var otherUserID, otherUserName string
		switch userID {
		case dmUserA.String:
			otherUserID, otherUserName = userBID.String, userBName.String
		case dmUserB.String:
			otherUserID, otherUserName = userAID.String, userAName.String
		default:
			continue
		}

		if otherUserID == "" || otherUserName == "" {
			continue
		}

		score := maxInt(
			searchutil.ScoreTextMatch(otherUserName, needleLower),
			searchutil.ScoreTextMatch(otherUserID, needleLower),
		)
		if score == 0 {
			continue
		}

		results = append(results, Result{
			Kind:           KindDM,
			ID:             conversationID,
			Score:          score + dmScoreBonus,
			Title:          otherUserName,
			Subtitle:       "Direct message",
			CreatedAt:      createdAt,
			ConversationID: conversationID,
			ThreadKind:     "dm",
			OtherUserID:    otherUserID,
			OtherUserName:  otherUserName,
		})

		if len(results) >= limit {
			break
		}
	}
	return results, rows.Err()
}

func (s *Store) searchMessages(ctx context.Context, userID, needleLower string, limit int) ([]Result, error) {
	likeQuery := "%" + needleLower + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
		  m."id" AS message_id,
		  m."conversationId" AS conversation_id,
		  m."body" AS body,
		  m."createdAt" AS created_at,
		  sender."displayName" AS sender_name,
		  c."type" AS conversation_type,
		  ch."name" AS channel_name,
		  ch."slug" AS channel_slug,
		  c."dmUserAId" AS dm_user_a_id,
		  c."dmUserBId" AS dm_user_b_id,
		  ua."id" AS user_a_id,
		  ua."displayName" AS user_a_name,
		  ub."id" AS user_b_id,
		  ub."displayName" AS user_b_name
		FROM "Message" m
		JOIN "Conversation" c ON c."id" = m."conversationId"
		JOIN "User" sender ON sender."id" = m."senderId"
		LEFT JOIN "Channel" ch ON ch."id" = c."channelId"
		LEFT JOIN "User" ua ON ua."id" = c."dmUserAId"
		LEFT JOIN "User" ub ON ub."id" = c."dmUserBId"
		WHERE lower(m."body") LIKE ?
		  AND (
		    c."type" = 'CHANNEL'
		    OR (
		      c."type" = 'DM'
		      AND (c."dmUserAId" = ? OR c."dmUserBId" = ?)
		    )
		  )
		ORDER BY m."createdAt" DESC
		LIMIT ?
	`, likeQuery, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var messageID, conversationID, body, createdAt, senderName, conversationType string
		var channelName, channelSlug sql.NullString
		var dmUserA, dmUserB sql.NullString
		var userAID, userAName, userBID, userBName sql.NullString

		if err := rows.Scan(
			&messageID, &conversationID, &body, &createdAt, &senderName, &conversationType,
			&channelName, &channelSlug, &dmUserA, &dmUserB, &userAID, &userAName, &userBID, &userBName,
		); err != nil {
			return nil, err
		}

		bodyScore := searchutil.ScoreTextMatch(body, needleLower)
		if bodyScore == 0 {
			continue
		}

		snippet := searchutil.ExtractSnippet(body, needleLower, searchutil.DefaultSnippetRadius)

		if conversationType == "CHANNEL" {
			name := orDefault(channelName.String, "channel")
			results = append(results, Result{
				Kind:           KindMessage,
				ID:             messageID,
				Score:          bodyScore + messageScoreBonus,
				Title:          fmt.Sprintf("%s in #%s", senderName, name),
				Subtitle:       "Channel message",
				Snippet:        snippet,
				CreatedAt:      createdAt,
				ConversationID: conversationID,
				ThreadKind:     "channel",
				ChannelSlug:    channelSlug.String,
				ChannelName:    name,
				MessageID:      messageID,
			})
			continue
		}

		var otherUserID, otherUserName string
		switch userID {
		case dmUserA.String:
			otherUserID, otherUserName = userBID.String, userBName.String
		case dmUserB.String:
			otherUserID, otherUserName = userAID.String, userAName.String
		}

		title := fmt.Sprintf("%s in DM with %s", senderName, orDefault(otherUserName, "DM"))
		results = append(results, Result{
			Kind:           KindMessage,
			ID:             messageID,
			Score:          bodyScore + messageScoreBonus,
			Title:          title,
			Subtitle:       "Direct message",
			Snippet:        snippet,
			CreatedAt:      createdAt,
			ConversationID: conversationID,
			ThreadKind:     "dm",
			OtherUserID:    otherUserID,
			OtherUserName:  otherUserName,
			MessageID:      messageID,
		})
	}
	return results, rows.Err()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
