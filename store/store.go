// Package store keeps normalized tweets and users synced by xsync in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	twitter "github.com/anatolykoptev/go-twitter-sync"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed row store.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes writers
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		location TEXT,
		url TEXT,
		verified INTEGER NOT NULL DEFAULT 0,
		profile_image_url TEXT,
		pinned_tweet_id TEXT,
		followers_count INTEGER NOT NULL DEFAULT 0,
		following_count INTEGER NOT NULL DEFAULT 0,
		tweet_count INTEGER NOT NULL DEFAULT 0,
		listed_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		synced_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tweets (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		text TEXT NOT NULL,
		raw_text TEXT NOT NULL,
		created_at DATETIME,
		conversation_id TEXT,
		in_reply_to_user_id TEXT,
		like_count INTEGER NOT NULL DEFAULT 0,
		retweet_count INTEGER NOT NULL DEFAULT 0,
		reply_count INTEGER NOT NULL DEFAULT 0,
		quote_count INTEGER NOT NULL DEFAULT 0,
		media TEXT,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		synced_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tweets_author ON tweets(author_id);
	CREATE INDEX IF NOT EXISTS idx_tweets_created ON tweets(created_at);

	CREATE TABLE IF NOT EXISTS listing_items (
		listing TEXT NOT NULL,
		item_id TEXT NOT NULL,
		run_id TEXT NOT NULL,
		PRIMARY KEY (listing, item_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertUser = `
	INSERT INTO users (id, username, name, description, location, url, verified, profile_image_url,
		pinned_tweet_id, followers_count, following_count, tweet_count, listed_count, created_at, synced_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		username = excluded.username, name = excluded.name, description = excluded.description,
		location = excluded.location, url = excluded.url, verified = excluded.verified,
		profile_image_url = excluded.profile_image_url, pinned_tweet_id = excluded.pinned_tweet_id,
		followers_count = excluded.followers_count, following_count = excluded.following_count,
		tweet_count = excluded.tweet_count, listed_count = excluded.listed_count,
		created_at = excluded.created_at, synced_at = excluded.synced_at`

const upsertTweet = `
	INSERT INTO tweets (id, author_id, text, raw_text, created_at, conversation_id, in_reply_to_user_id,
		like_count, retweet_count, reply_count, quote_count, media, url, title, synced_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		text = excluded.text, raw_text = excluded.raw_text,
		like_count = excluded.like_count, retweet_count = excluded.retweet_count,
		reply_count = excluded.reply_count, quote_count = excluded.quote_count,
		media = excluded.media, url = excluded.url, title = excluded.title, synced_at = excluded.synced_at`

// SaveUsers upserts users.
func (s *Store) SaveUsers(ctx context.Context, users []*twitter.User) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, u := range users {
			if err := insertUser(ctx, tx, u, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTweets upserts tweets together with their authors and replied-to users.
func (s *Store) SaveTweets(ctx context.Context, tweets []*twitter.Tweet) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, t := range tweets {
			for _, u := range []*twitter.User{t.Author, t.ReplyTo} {
				if u == nil {
					continue
				}
				if err := insertUser(ctx, tx, u, now); err != nil {
					return err
				}
			}
			media, err := json.Marshal(t.Media)
			if err != nil {
				return fmt.Errorf("marshal media for tweet %s: %w", t.ID, err)
			}
			if _, err := tx.ExecContext(ctx, upsertTweet,
				t.ID, t.AuthorID, t.Text, t.RawText, nullTime(t.CreatedAt), t.ConversationID, t.InReplyToUserID,
				t.LikeCount, t.RetweetCount, t.ReplyCount, t.QuoteCount, string(media), t.URL, t.Title, now,
			); err != nil {
				return fmt.Errorf("upsert tweet %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// MarkListed records which listing an item was seen in and by which run.
func (s *Store) MarkListed(ctx context.Context, listing, runID string, itemIDs []string) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		for _, id := range itemIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO listing_items (listing, item_id, run_id) VALUES (?, ?, ?)
				 ON CONFLICT(listing, item_id) DO UPDATE SET run_id = excluded.run_id`,
				listing, id, runID,
			); err != nil {
				return fmt.Errorf("mark %s in %s: %w", id, listing, err)
			}
		}
		return nil
	})
}

func insertUser(ctx context.Context, tx *sql.Tx, u *twitter.User, now time.Time) error {
	if _, err := tx.ExecContext(ctx, upsertUser,
		u.ID, u.Username, u.Name, u.Description, u.Location, u.URL, u.Verified, u.ProfileImageURL,
		u.PinnedTweetID, u.FollowersCount, u.FollowingCount, u.TweetCount, u.ListedCount, nullTime(u.CreatedAt), now,
	); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

func (s *Store) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Tweet returns a stored tweet joined with its author.
func (s *Store) Tweet(ctx context.Context, id string) (*twitter.Tweet, error) {
	tweets, err := s.queryTweets(ctx, `WHERE t.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(tweets) == 0 {
		return nil, fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	}
	return tweets[0], nil
}

// TweetsByAuthor returns up to limit stored tweets by a user, newest first.
func (s *Store) TweetsByAuthor(ctx context.Context, authorID string, limit int) ([]*twitter.Tweet, error) {
	return s.queryTweets(ctx, `WHERE t.author_id = ? ORDER BY length(t.id) DESC, t.id DESC LIMIT ?`, authorID, limit)
}

// ListingTweets returns up to limit stored tweets seen in listing, newest first.
func (s *Store) ListingTweets(ctx context.Context, listing string, limit int) ([]*twitter.Tweet, error) {
	return s.queryTweets(ctx,
		`JOIN listing_items li ON li.item_id = t.id AND li.listing = ?
		 ORDER BY length(t.id) DESC, t.id DESC LIMIT ?`, listing, limit)
}

func (s *Store) queryTweets(ctx context.Context, clause string, args ...any) ([]*twitter.Tweet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.author_id, t.text, t.raw_text, t.created_at, t.conversation_id, t.in_reply_to_user_id,
			t.like_count, t.retweet_count, t.reply_count, t.quote_count, t.media, t.url, t.title,
			u.id, u.username, u.name, u.verified, u.profile_image_url
		FROM tweets t LEFT JOIN users u ON u.id = t.author_id `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query tweets: %w", err)
	}
	defer rows.Close()

	var out []*twitter.Tweet
	for rows.Next() {
		var (
			t         twitter.Tweet
			created   sql.NullTime
			conv      sql.NullString
			replyTo   sql.NullString
			media     sql.NullString
			authorID  sql.NullString
			username  sql.NullString
			name      sql.NullString
			verified  sql.NullBool
			avatarURL sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.AuthorID, &t.Text, &t.RawText, &created, &conv, &replyTo,
			&t.LikeCount, &t.RetweetCount, &t.ReplyCount, &t.QuoteCount, &media, &t.URL, &t.Title,
			&authorID, &username, &name, &verified, &avatarURL); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		t.CreatedAt = created.Time
		t.ConversationID = conv.String
		t.InReplyToUserID = replyTo.String
		if media.Valid && media.String != "" && media.String != "null" {
			if err := json.Unmarshal([]byte(media.String), &t.Media); err != nil {
				return nil, fmt.Errorf("decode media for tweet %s: %w", t.ID, err)
			}
		}
		if authorID.Valid {
			t.Author = &twitter.User{
				ID: authorID.String, Username: username.String, Name: name.String,
				Verified: verified.Bool, ProfileImageURL: avatarURL.String,
			}
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// User returns a stored user by ID.
func (s *Store) User(ctx context.Context, id string) (*twitter.User, error) {
	var (
		u                           twitter.User
		desc, loc, url, avatar, pin sql.NullString
		created                     sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, name, description, location, url, verified, profile_image_url, pinned_tweet_id,
			followers_count, following_count, tweet_count, listed_count, created_at
		FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Username, &u.Name, &desc, &loc, &url, &u.Verified, &avatar, &pin,
		&u.FollowersCount, &u.FollowingCount, &u.TweetCount, &u.ListedCount, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Description, u.Location, u.URL = desc.String, loc.String, url.String
	u.ProfileImageURL, u.PinnedTweetID = avatar.String, pin.String
	u.CreatedAt = created.Time
	return &u, nil
}

// Counts returns the number of stored tweets and users.
func (s *Store) Counts(ctx context.Context) (tweets, users int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM tweets), (SELECT COUNT(*) FROM users)`).Scan(&tweets, &users)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return tweets, users, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
