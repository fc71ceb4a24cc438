package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. Recognized fields are nullable: NULL means the field is
// absent, '' means present but empty. extra holds the pass-through map as a
// JSON object.
const (
	createContacts = `CREATE TABLE contacts (
    contact_id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    family TEXT,
    given TEXT,
    full_name TEXT,
    tel_work TEXT,
    tel_home TEXT,
    tel TEXT,
    extra TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	// Not unique: Delete shifts positions with one UPDATE and SQLite checks
	// unique indexes row by row.
	idxContactsPosition = `CREATE INDEX idx_contacts_position ON contacts(position);`
)

// schemaDDL lists the CREATE statements in execution order.
var schemaDDL = []string{
	createContacts,
	idxContactsPosition,
}

// contactColumns is the column list used by every SELECT and INSERT, in
// scan order.
var contactColumns = []string{
	"contact_id", "position", "family", "given", "full_name",
	"tel_work", "tel_home", "tel", "extra", "created_at", "updated_at",
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	return nil
}
