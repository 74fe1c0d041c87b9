package analyze

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Annotation holds the per-title scorer outputs cached between runs.
type Annotation struct {
	Sentiment float64
	Toxicity  float64
	Emotion   string
}

// Cache persists annotations in SQLite keyed by a hash of the title, so a
// restarted dashboard does not redo scoring work for titles it has already
// seen. All methods are safe for concurrent use; database/sql serializes
// access to the underlying connection pool.
type Cache struct {
	conn *sql.DB
}

// OpenCache opens (or creates) the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open annotation cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS annotations (
		title_hash TEXT PRIMARY KEY,
		sentiment  REAL NOT NULL,
		toxicity   REAL NOT NULL,
		emotion    TEXT NOT NULL
	);`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init annotation cache schema: %w", err)
	}

	return &Cache{conn: conn}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Get looks up a cached annotation for a title. The bool reports whether the
// title was found.
func (c *Cache) Get(title string) (Annotation, bool, error) {
	var a Annotation
	row := c.conn.QueryRow(
		`SELECT sentiment, toxicity, emotion FROM annotations WHERE title_hash = ?`,
		titleHash(title))
	err := row.Scan(&a.Sentiment, &a.Toxicity, &a.Emotion)
	if err == sql.ErrNoRows {
		return Annotation{}, false, nil
	}
	if err != nil {
		return Annotation{}, false, fmt.Errorf("annotation cache lookup: %w", err)
	}
	return a, true, nil
}

// Put stores an annotation, replacing any previous entry for the title.
func (c *Cache) Put(title string, a Annotation) error {
	_, err := c.conn.Exec(
		`INSERT OR REPLACE INTO annotations (title_hash, sentiment, toxicity, emotion)
		 VALUES (?, ?, ?, ?)`,
		titleHash(title), a.Sentiment, a.Toxicity, a.Emotion)
	if err != nil {
		return fmt.Errorf("annotation cache store: %w", err)
	}
	return nil
}

// Size returns the number of cached annotations.
func (c *Cache) Size() (int, error) {
	var n int
	if err := c.conn.QueryRow(`SELECT COUNT(*) FROM annotations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("annotation cache count: %w", err)
	}
	return n, nil
}

func titleHash(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])
}
