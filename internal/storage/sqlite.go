// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/elia-tui/internal/apperr"
	"github.com/jeranaias/elia-tui/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore is a ChatStore backed by SQLite.
//
// The pool is limited to a single connection, so SQLite's single writer is
// never contended and SetTitle can run alongside AppendMessage safely.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	resolver ModelResolver
	logger   *zap.Logger
}

// Options configures a SQLiteStore.
type Options struct {
	// Resolver re-resolves stored model keys on load. Optional.
	Resolver ModelResolver

	// Logger receives storage diagnostics. Optional.
	Logger *zap.Logger
}

var _ ChatStore = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, opts Options) (*SQLiteStore, error) {
	const op = "storage.Open"

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperr.Persistence(op, fmt.Errorf("failed to create database directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperr.Persistence(op, fmt.Errorf("failed to open database: %w", err))
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, apperr.Persistence(op, fmt.Errorf("failed to set pragma: %w", err))
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, apperr.Persistence(op, fmt.Errorf("failed to initialize schema: %w", err))
	}
	if _, err := db.ExecContext(ctx, InitMetadata); err != nil {
		db.Close()
		return nil, apperr.Persistence(op, fmt.Errorf("failed to initialize metadata: %w", err))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SQLiteStore{
		db:       db,
		path:     path,
		resolver: opts.Resolver,
		logger:   logger.Named("storage"),
	}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// CreateChat records chat and all its messages in one transaction.
// The creation time is chat.CreateTimestamp, else the earliest message
// timestamp, else now. Messages without a timestamp get the creation time.
func (s *SQLiteStore) CreateChat(ctx context.Context, chat model.ChatData) (string, error) {
	const op = "storage.CreateChat"

	if chat.ID != "" {
		return "", apperr.InvalidArgument(op, "chat already has id %q", chat.ID)
	}
	if strings.TrimSpace(chat.Model.Name) == "" {
		return "", apperr.InvalidArgument(op, "chat has no model")
	}

	id := uuid.NewString()
	created := creationTime(chat)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", apperr.Persistence(op, err)
	}
	defer tx.Rollback()

	var title any
	if chat.Title != "" {
		title = normalizeTitle(chat.Title)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chats (id, title, model_key, model_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, chat.Model.LookupKey(), chat.Model.Name, created.UnixNano(),
	); err != nil {
		return "", apperr.Persistence(op, fmt.Errorf("insert chat: %w", err))
	}

	for i, msg := range chat.Messages {
		if err := insertMessage(ctx, tx, id, i, msg, created); err != nil {
			return "", apperr.Persistence(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", apperr.Persistence(op, fmt.Errorf("commit: %w", err))
	}

	s.logger.Debug("chat created",
		zap.String("chat_id", id),
		zap.Int("messages", len(chat.Messages)),
		zap.Object("model", chat.Model))
	return id, nil
}

// AppendMessage appends msg after the chat's last message. A message without a
// timestamp is stored with the current time.
func (s *SQLiteStore) AppendMessage(ctx context.Context, chatID string, msg model.ChatMessage) error {
	const op = "storage.AppendMessage"

	if !msg.Role.Valid() {
		return apperr.InvalidArgument(op, "unknown role %q", msg.Role)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT MAX(position) + 1 FROM messages WHERE chat_id = ?), 0)
		 FROM chats WHERE id = ?`, chatID, chatID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(op, "chat %q", chatID)
	}
	if err != nil {
		return apperr.Persistence(op, err)
	}

	if err := insertMessage(ctx, tx, chatID, next, msg, time.Now().UTC()); err != nil {
		return apperr.Persistence(op, err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Persistence(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// SetTitle names the chat. The title is trimmed and NFC-normalised.
func (s *SQLiteStore) SetTitle(ctx context.Context, chatID, title string) error {
	const op = "storage.SetTitle"

	title = normalizeTitle(title)
	if title == "" {
		return apperr.InvalidArgument(op, "title must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `UPDATE chats SET title = ? WHERE id = ?`, title, chatID)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence(op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "chat %q", chatID)
	}
	return nil
}

// DeleteChat removes a chat and its messages.
func (s *SQLiteStore) DeleteChat(ctx context.Context, chatID string) error {
	const op = "storage.DeleteChat"

	res, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound(op, "chat %q", chatID)
	}
	return nil
}

// Reset removes every chat.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	const op = "storage.Reset"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM messages", "DELETE FROM chats"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return apperr.Persistence(op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Persistence(op, err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// GetChat loads a chat with its messages in append order.
func (s *SQLiteStore) GetChat(ctx context.Context, chatID string) (model.ChatData, error) {
	const op = "storage.GetChat"

	var (
		title     sql.NullString
		modelKey  string
		modelName string
		created   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, model_key, model_name, created_at FROM chats WHERE id = ?`, chatID,
	).Scan(&title, &modelKey, &modelName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChatData{}, apperr.NotFound(op, "chat %q", chatID)
	}
	if err != nil {
		return model.ChatData{}, apperr.Persistence(op, err)
	}

	chat := model.ChatData{
		ID:              chatID,
		Title:           title.String,
		CreateTimestamp: fromUnixNano(created),
		Model:           s.resolveModel(modelKey, modelName),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, timestamp, model_key, model_name
		 FROM messages WHERE chat_id = ? ORDER BY position`, chatID)
	if err != nil {
		return model.ChatData{}, apperr.Persistence(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role, content, key, name string
			ts                       int64
		)
		if err := rows.Scan(&role, &content, &ts, &key, &name); err != nil {
			return model.ChatData{}, apperr.Persistence(op, err)
		}
		chat.Messages = append(chat.Messages, model.ChatMessage{
			Role:      model.Role(role),
			Content:   content,
			Timestamp: fromUnixNano(ts),
			Model:     s.resolveModel(key, name),
		})
	}
	if err := rows.Err(); err != nil {
		return model.ChatData{}, apperr.Persistence(op, err)
	}
	return chat, nil
}

// ListChats returns every chat, most recent first.
func (s *SQLiteStore) ListChats(ctx context.Context) ([]ChatSummary, error) {
	const op = "storage.ListChats"

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.model_key, c.created_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id),
		       COALESCE((SELECT m.content FROM messages m
		                 WHERE m.chat_id = c.id AND m.role = 'user'
		                 ORDER BY m.position LIMIT 1), '')
		FROM chats c
		ORDER BY c.created_at DESC, c.rowid DESC`)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	defer rows.Close()

	var out []ChatSummary
	for rows.Next() {
		var (
			sum     ChatSummary
			title   sql.NullString
			created int64
		)
		if err := rows.Scan(&sum.ID, &title, &sum.ModelKey, &created, &sum.MessageCount, &sum.Preview); err != nil {
			return nil, apperr.Persistence(op, err)
		}
		sum.Title = title.String
		sum.CreatedAt = fromUnixNano(created)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return out, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// insertMessage stores msg at position. A message without a timestamp is
// stamped with fallback.
func insertMessage(ctx context.Context, tx *sql.Tx, chatID string, position int, msg model.ChatMessage, fallback time.Time) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = fallback
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO messages (chat_id, position, role, content, timestamp, model_key, model_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chatID, position, string(msg.Role), msg.Content, msg.Timestamp.UTC().UnixNano(),
		msg.Model.LookupKey(), msg.Model.Name)
	if err != nil {
		return fmt.Errorf("insert message %d: %w", position, err)
	}
	return nil
}

// resolveModel maps a stored key back to a catalog entry. Keys that no longer
// resolve (a user model removed from the config) degrade to a name-only model.
func (s *SQLiteStore) resolveModel(key, name string) model.ModelConfig {
	if s.resolver != nil {
		if m, err := s.resolver(key); err == nil {
			return m
		}
		s.logger.Debug("stored model no longer in catalog", zap.String("key", key))
	}
	m := model.ModelConfig{Name: name, Temperature: model.DefaultTemperature}
	if key != name {
		m.ID = key
	}
	return m
}

func creationTime(chat model.ChatData) time.Time {
	if !chat.CreateTimestamp.IsZero() {
		return chat.CreateTimestamp.UTC()
	}
	var earliest time.Time
	for _, msg := range chat.Messages {
		if msg.Timestamp.IsZero() {
			continue
		}
		if earliest.IsZero() || msg.Timestamp.Before(earliest) {
			earliest = msg.Timestamp
		}
	}
	if earliest.IsZero() {
		return time.Now().UTC()
	}
	return earliest.UTC()
}

func normalizeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	return norm.NFC.String(title)
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
