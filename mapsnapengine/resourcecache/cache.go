package resourcecache

import (
	"database/sql"
	"time"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS resources (
	url TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);
`

// Cache is the engine's on-disk resource cache: one sqlite file at the
// configured cache path, keyed by resolved URL. Concurrent instances pointed
// at the same path rely on sqlite's own locking.
type Cache struct {
	db *sqlx.DB
}

func NewCache(filePath string) (*Cache, errorsx.Error) {
	db, err := sqlx.Open("sqlite3", filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "cachePath", filePath)
	}

	_, err = db.Exec(sqliteSchema)
	if err != nil {
		db.Close()
		return nil, errorsx.Wrap(err, "cachePath", filePath)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached bytes for url, and whether there was an entry.
func (c *Cache) Get(url string) ([]byte, bool, errorsx.Error) {
	var data []byte

	err := c.db.Get(&data, "SELECT data FROM resources WHERE url = ?", url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errorsx.Wrap(err, "url", url)
	}

	return data, true, nil
}

// Put stores (or replaces) the bytes for url.
func (c *Cache) Put(url string, data []byte) errorsx.Error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO resources (url, data, fetched_at) VALUES (?, ?, ?)",
		url, data, time.Now().UTC(),
	)
	if err != nil {
		return errorsx.Wrap(err, "url", url)
	}

	return nil
}

// EntryCount reports how many resources are cached.
func (c *Cache) EntryCount() (int64, errorsx.Error) {
	var count int64

	err := c.db.Get(&count, "SELECT COUNT(*) FROM resources")
	if err != nil {
		return 0, errorsx.Wrap(err)
	}

	return count, nil
}

func (c *Cache) Close() errorsx.Error {
	return errorsx.Wrap(c.db.Close())
}
