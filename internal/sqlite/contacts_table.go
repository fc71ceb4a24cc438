package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// contactRecord is one row of the contacts table and one line of
// contacts.jsonl. The embedded Contact flattens into the JSON object.
type contactRecord struct {
	ContactID string `json:"contact_id"`
	Position  int    `json:"position"`
	types.Contact
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

var (
	selectSQL = "SELECT " + strings.Join(contactColumns, ", ") + " FROM contacts"
	insertSQL = "INSERT INTO contacts (" + strings.Join(contactColumns, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(contactColumns)), ", ") + ")"
)

// args returns the INSERT arguments in contactColumns order.
func (r contactRecord) args() ([]any, error) {
	extra, err := encodeExtra(r.Extra)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created, updated := r.CreatedAt, r.UpdatedAt
	if created == "" {
		created = now
	}
	if updated == "" {
		updated = created
	}
	return []any{
		r.ContactID, r.Position,
		nullable(r.Family), nullable(r.Given), nullable(r.FullName),
		nullable(r.TelWork), nullable(r.TelHome), nullable(r.Tel),
		extra, created, updated,
	}, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (contactRecord, error) {
	var (
		rec                                             contactRecord
		family, given, fullName, telWork, telHome, tel sql.NullString
		extra                                           sql.NullString
	)
	err := row.Scan(&rec.ContactID, &rec.Position, &family, &given, &fullName,
		&telWork, &telHome, &tel, &extra, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return contactRecord{}, err
	}
	rec.Family = fromNullable(family)
	rec.Given = fromNullable(given)
	rec.FullName = fromNullable(fullName)
	rec.TelWork = fromNullable(telWork)
	rec.TelHome = fromNullable(telHome)
	rec.Tel = fromNullable(tel)
	if extra.Valid {
		if err := json.Unmarshal([]byte(extra.String), &rec.Extra); err != nil {
			return contactRecord{}, fmt.Errorf("parsing extra for %s: %w", rec.ContactID, err)
		}
	}
	return rec, nil
}

// selectRecords returns every row in position order.
func selectRecords(db *sql.DB) ([]contactRecord, error) {
	rows, err := db.Query(selectSQL + " ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var records []contactRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Contacts returns the full sequence in order.
func (b *Backend) Contacts() (types.Sequence, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.contactsLocked()
}

func (b *Backend) contactsLocked() (types.Sequence, error) {
	records, err := selectRecords(b.db)
	if err != nil {
		return nil, err
	}
	seq := make(types.Sequence, len(records))
	for i, rec := range records {
		seq[i] = rec.Contact
	}
	return seq, nil
}

// Get returns the contact at index.
// Returns ErrNotFound if index is out of range.
func (b *Backend) Get(index int) (types.Contact, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Contact{}, types.ErrStoreDetached
	}

	rec, err := scanRecord(b.db.QueryRow(selectSQL+" WHERE position = ?", index))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Contact{}, types.ErrNotFound
	}
	if err != nil {
		return types.Contact{}, fmt.Errorf("scanning contact: %w", err)
	}
	return rec.Contact, nil
}

// Append adds c at the end and returns its index. If contacts.jsonl cannot
// be rewritten the contact stays in the table and the error is returned.
func (b *Backend) Append(c types.Contact) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting contacts: %w", err)
	}

	rec := contactRecord{ContactID: newUUID(), Position: n, Contact: c}
	args, err := rec.args()
	if err != nil {
		return 0, err
	}
	if _, err := b.db.Exec(insertSQL, args...); err != nil {
		return 0, fmt.Errorf("inserting contact: %w", err)
	}

	if err := b.afterWriteLocked(); err != nil {
		return 0, err
	}
	log.Debugw("contact appended", "index", n, "contact_id", rec.ContactID)
	return n, nil
}

// Replace overwrites the contact at index, keeping its ID and creation time.
// Returns ErrNotFound if index is out of range.
func (b *Backend) Replace(index int, c types.Contact) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	extra, err := encodeExtra(c.Extra)
	if err != nil {
		return err
	}
	res, err := b.db.Exec(`UPDATE contacts SET
    family = ?, given = ?, full_name = ?, tel_work = ?, tel_home = ?, tel = ?,
    extra = ?, updated_at = ?
WHERE position = ?`,
		nullable(c.Family), nullable(c.Given), nullable(c.FullName),
		nullable(c.TelWork), nullable(c.TelHome), nullable(c.Tel),
		extra, time.Now().UTC().Format(time.RFC3339), index)
	if err != nil {
		return fmt.Errorf("updating contact: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating contact: %w", err)
	} else if n == 0 {
		return types.ErrNotFound
	}

	if err := b.afterWriteLocked(); err != nil {
		return err
	}
	log.Debugw("contact replaced", "index", index)
	return nil
}

// Delete removes the contact at index and shifts later contacts down.
// Returns ErrNotFound if index is out of range.
func (b *Backend) Delete(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM contacts WHERE position = ?", index)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	} else if n == 0 {
		return types.ErrNotFound
	}
	if _, err := tx.Exec("UPDATE contacts SET position = position - 1 WHERE position > ?", index); err != nil {
		return fmt.Errorf("shifting positions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	if err := b.afterWriteLocked(); err != nil {
		return err
	}
	log.Debugw("contact deleted", "index", index)
	return nil
}

// ReplaceAll discards the current sequence and stores seq in its place.
func (b *Backend) ReplaceAll(seq types.Sequence) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM contacts"); err != nil {
		return fmt.Errorf("clearing contacts: %w", err)
	}
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range seq {
		args, err := contactRecord{ContactID: newUUID(), Position: i, Contact: c}.args()
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting contact %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}

	if err := b.afterWriteLocked(); err != nil {
		return err
	}
	log.Infow("contacts replaced", "count", len(seq))
	return nil
}

// Search returns the entries whose names contain query, ignoring case.
func (b *Backend) Search(query string) ([]types.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	seq, err := b.contactsLocked()
	if err != nil {
		return nil, err
	}
	return seq.Search(query), nil
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return types.Str(s.String)
}

func encodeExtra(extra map[string]string) (any, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("marshal extra: %w", err)
	}
	return string(data), nil
}
