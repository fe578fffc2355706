// Package places registers keyword search shortcuts as bookmarks in a
// profile's places.sqlite database.
package places

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "modernc.org/sqlite"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// DatabaseFile is the bookmarks and history database in a profile.
const DatabaseFile = "places.sqlite"

// unfiledGUID identifies the "Other Bookmarks" folder.
const unfiledGUID = "unfiled_____"

// ErrNoDatabase is returned when the profile has no places database yet,
// which happens until the browser has been started once.
var ErrNoDatabase = errors.New("places database does not exist yet")

// Result lists the keywords that were created or updated.
type Result struct {
	Created []string
	Updated []string
	Skipped []string
}

// Writer upserts keyword bookmarks.
type Writer struct {
	// FS checks for the database; defaults to the OS filesystem.
	FS system.FileSystem
	// Now returns the bookmark timestamp; defaults to time.Now.
	Now func() time.Time
}

// Apply upserts one bookmark per search engine with a keyword, in a single
// transaction. Existing keywords are updated in place.
func (w *Writer) Apply(ctx context.Context, dbPath string, engines []config.SearchEngine) (*Result, error) {
	fsys := w.FS
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	if _, err := fsys.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDatabase
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res := &Result{}
	var parent int64
	parentLoaded := false

	for _, e := range engines {
		if e.Keyword == "" || e.URL == "" {
			res.Skipped = append(res.Skipped, e.Name)
			continue
		}

		var placeID int64
		err := tx.QueryRowContext(ctx, `SELECT place_id FROM moz_keywords WHERE keyword = ?`, e.Keyword).Scan(&placeID)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx, `UPDATE moz_places SET url = ?, title = ? WHERE id = ?`, e.URL, e.Name, placeID); err != nil {
				return nil, fmt.Errorf("failed to update keyword %q: %w", e.Keyword, err)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE moz_bookmarks SET title = ? WHERE fk = ?`, e.Name, placeID); err != nil {
				return nil, fmt.Errorf("failed to update bookmark for %q: %w", e.Keyword, err)
			}
			res.Updated = append(res.Updated, e.Keyword)
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("failed to look up keyword %q: %w", e.Keyword, err)
		}

		if !parentLoaded {
			if err := tx.QueryRowContext(ctx, `SELECT id FROM moz_bookmarks WHERE guid = ?`, unfiledGUID).Scan(&parent); err != nil {
				return nil, fmt.Errorf("failed to find the Other Bookmarks folder: %w", err)
			}
			parentLoaded = true
		}
		if err := w.insert(ctx, tx, parent, e); err != nil {
			return nil, err
		}
		res.Created = append(res.Created, e.Keyword)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return res, nil
}

func (w *Writer) insert(ctx context.Context, tx *sql.Tx, parent int64, e config.SearchEngine) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().UnixMicro()

	placeGUID, err := newGUID()
	if err != nil {
		return err
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO moz_places (url, title, rev_host, visit_count, hidden, typed, frecency, guid)
		 VALUES (?, ?, '', 0, 0, 0, -1, ?)`,
		e.URL, e.Name, placeGUID)
	if err != nil {
		return fmt.Errorf("failed to insert place for %q: %w", e.Keyword, err)
	}
	placeID, err := r.LastInsertId()
	if err != nil {
		return err
	}

	bookmarkGUID, err := newGUID()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO moz_bookmarks (type, fk, parent, position, title, dateAdded, lastModified, guid)
		 VALUES (1, ?, ?, (SELECT IFNULL(MAX(position) + 1, 0) FROM moz_bookmarks WHERE parent = ?), ?, ?, ?, ?)`,
		placeID, parent, parent, e.Name, ts, ts, bookmarkGUID); err != nil {
		return fmt.Errorf("failed to insert bookmark for %q: %w", e.Keyword, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO moz_keywords (keyword, place_id, post_data) VALUES (?, ?, NULL)`,
		e.Keyword, placeID); err != nil {
		return fmt.Errorf("failed to insert keyword %q: %w", e.Keyword, err)
	}
	return nil
}

// newGUID returns a 12 character places GUID.
func newGUID() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate guid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
