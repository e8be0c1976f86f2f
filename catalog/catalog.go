/*
Package catalog implements an SQLite database of the splash blocks found in
one or more containers, so identical pictures can be located across firmware
images.
*/
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/splash/header"
	_ "github.com/mattn/go-sqlite3"
)

// Entry describes one block of a container
type Entry struct {
	Path     string
	Index    int
	Position int64
	Width    uint32
	Height   uint32
	Mode     header.Mode
	Pages    uint32
	CRC      string
}

// Catalog is the block database
type Catalog struct {
	db *sql.DB
}

// New opens or creates the catalog stored in file
func New(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS container (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS block (container_id INTEGER NOT NULL, idx INTEGER NOT NULL, position INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, mode INTEGER NOT NULL, pages INTEGER NOT NULL, crc TEXT NOT NULL, UNIQUE(container_id, idx), FOREIGN KEY(container_id) REFERENCES container(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS block_crc ON block (crc)"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) addContainer(path string) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM container WHERE path = ?", path).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO container (path) VALUES (?)", path)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Add records e, replacing any previous entry for the same block
func (c *Catalog) Add(e Entry) error {
	id, err := c.addContainer(e.Path)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO block (container_id, idx, position, width, height, mode, pages, crc) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", id, e.Index, e.Position, e.Width, e.Height, uint32(e.Mode), e.Pages, e.CRC); err != nil {
		return err
	}

	return nil
}

func (c *Catalog) query(where string, args ...interface{}) ([]Entry, error) {
	rows, err := c.db.Query("SELECT c.path, b.idx, b.position, b.width, b.height, b.mode, b.pages, b.crc FROM block AS b JOIN container AS c ON b.container_id = c.id WHERE "+where+" ORDER BY c.path, b.idx", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var mode uint32
		if err := rows.Scan(&e.Path, &e.Index, &e.Position, &e.Width, &e.Height, &mode, &e.Pages, &e.CRC); err != nil {
			return nil, err
		}
		e.Mode = header.Mode(mode)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Entries returns the blocks recorded for the container at path
func (c *Catalog) Entries(path string) ([]Entry, error) {
	return c.query("c.path = ?", path)
}

// FindByCRC returns every block whose picture has the given CRC
func (c *Catalog) FindByCRC(crc string) ([]Entry, error) {
	return c.query("b.crc = ?", crc)
}
