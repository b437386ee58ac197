// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index writes one run's result into a SQLite file so it can be
// queried after the run (last30days show). The file is rebuilt from
// scratch on every run.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/last30days/pkg/types"
)

// FileName is the index's name inside the output directory.
const FileName = "report.db"

var schema = []string{
	`CREATE TABLE run (
		run_id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		from_date TEXT,
		to_date TEXT,
		mode TEXT NOT NULL,
		coverage_note TEXT,
		forum_model TEXT,
		microblog_model TEXT
	)`,
	`CREATE TABLE items (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		platform TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		community TEXT,
		date TEXT NOT NULL,
		date_confidence TEXT,
		score REAL NOT NULL,
		relevance REAL,
		engagement TEXT,
		engagement_confidence TEXT,
		summary TEXT,
		merged_ids TEXT,
		top_comments TEXT
	)`,
	`CREATE INDEX idx_items_platform ON items(platform)`,
}

// Build creates the index at path for res, replacing any existing file.
func Build(ctx context.Context, path string, res types.RunResult) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old index: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO run (run_id, topic, generated_at, from_date, to_date, mode, coverage_note, forum_model, microblog_model)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Topic, res.GeneratedAt.UTC().Format(time.RFC3339), res.FromDate, res.ToDate,
		string(res.Mode), res.CoverageNote, res.ModelsUsed.Forum, res.ModelsUsed.Microblog,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (id, position, platform, title, url, community, date, date_confidence,
			score, relevance, engagement, engagement_confidence, summary, merged_ids, top_comments)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range res.Items {
		engJSON, _ := json.Marshal(it.Engagement)
		mergedJSON, _ := json.Marshal(it.MergedIDs)
		commentsJSON, _ := json.Marshal(it.TopComments)
		_, err := stmt.ExecContext(ctx,
			it.ID, i, string(it.Platform), it.Title, it.URL, it.Community,
			it.Date.UTC().Format(time.DateOnly), string(it.DateConfidence),
			it.Score, it.Relevance, string(engJSON), string(it.Engagement.Confidence),
			it.Summary, string(mergedJSON), string(commentsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// Index is a read-only handle on a built index.
type Index struct {
	db *sql.DB
}

// Open opens the index at path read-only.
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Run returns the run metadata with no items.
func (x *Index) Run(ctx context.Context) (types.RunResult, error) {
	var (
		res       types.RunResult
		generated string
		mode      string
	)
	err := x.db.QueryRowContext(ctx,
		`SELECT run_id, topic, generated_at, from_date, to_date, mode, coverage_note, forum_model, microblog_model FROM run LIMIT 1`,
	).Scan(&res.RunID, &res.Topic, &generated, &res.FromDate, &res.ToDate, &mode,
		&res.CoverageNote, &res.ModelsUsed.Forum, &res.ModelsUsed.Microblog)
	if err != nil {
		return types.RunResult{}, fmt.Errorf("reading run: %w", err)
	}
	res.Mode = types.Mode(mode)
	if t, err := time.Parse(time.RFC3339, generated); err == nil {
		res.GeneratedAt = t
	}
	return res, nil
}

// Filter narrows Items.
type Filter struct {
	// Platform restricts results to one platform when set.
	Platform types.Platform

	// Text matches a case-insensitive substring of the title or summary.
	Text string

	// Limit caps the result count; zero means no limit.
	Limit int
}

// Items returns the indexed items matching f, in ranked order.
func (x *Index) Items(ctx context.Context, f Filter) ([]types.ResearchItem, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, platform, title, url, community, date, date_confidence, score,
		relevance, engagement, summary, merged_ids, top_comments FROM items WHERE 1=1`)
	if f.Platform != "" {
		qb.WriteString(` AND platform = ?`)
		args = append(args, string(f.Platform))
	}
	if f.Text != "" {
		qb.WriteString(` AND (lower(title) LIKE ? OR lower(summary) LIKE ?)`)
		pat := "%" + strings.ToLower(f.Text) + "%"
		args = append(args, pat, pat)
	}
	qb.WriteString(` ORDER BY position`)
	if f.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := x.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.ResearchItem
	for rows.Next() {
		var (
			it                                types.ResearchItem
			platform, date, dateConf          string
			engJSON, mergedJSON, commentsJSON string
		)
		if err := rows.Scan(&it.ID, &platform, &it.Title, &it.URL, &it.Community, &date, &dateConf,
			&it.Score, &it.Relevance, &engJSON, &it.Summary, &mergedJSON, &commentsJSON); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Platform = types.Platform(platform)
		it.DateConfidence = types.DateConfidence(dateConf)
		if t, err := time.Parse(time.DateOnly, date); err == nil {
			it.Date = t
		}
		if err := json.Unmarshal([]byte(engJSON), &it.Engagement); err != nil {
			return nil, fmt.Errorf("decoding engagement of %s: %w", it.ID, err)
		}
		if err := json.Unmarshal([]byte(mergedJSON), &it.MergedIDs); err != nil {
			return nil, fmt.Errorf("decoding merged ids of %s: %w", it.ID, err)
		}
		if err := json.Unmarshal([]byte(commentsJSON), &it.TopComments); err != nil {
			return nil, fmt.Errorf("decoding top comments of %s: %w", it.ID, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
