package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
)

// loadContactsJSONL reads contacts.jsonl and inserts its records into the
// contacts table. Loading is transactional: all succeed or the table stays
// empty. Malformed lines are skipped and unknown JSON fields are ignored.
// Positions are renumbered densely in file position order, so gaps or
// duplicates left by hand edits are repaired. Returns the number of
// contacts loaded.
func loadContactsJSONL(db *sql.DB, dataDir string) (int, error) {
	raw, err := readJSONL(filepath.Join(dataDir, contactsJSONL))
	if err != nil {
		return 0, err
	}

	records := make([]contactRecord, 0, len(raw))
	for _, line := range raw {
		var rec contactRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Warnw("skipping unreadable contact record", "error", err)
			continue
		}
		if rec.ContactID == "" {
			rec.ContactID = newUUID()
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return 0, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for _, rec := range records {
		rec.Position = loaded
		args, err := rec.args()
		if err != nil {
			return 0, err
		}
		if _, err := stmt.Exec(args...); err != nil {
			// Duplicate IDs violate the primary key; keep the first.
			log.Warnw("skipping contact record", "contact_id", rec.ContactID, "error", err)
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}
