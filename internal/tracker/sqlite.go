package tracker

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store with SQLite-backed persistence. It delegates
// all lifecycle logic to an embedded MemoryStore and mirrors each write to
// disk, so a restart reloads the full record set into memory.
type SQLiteStore struct {
	inner *MemoryStore
	db    *sqlx.DB
	mu    sync.Mutex
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS offer_records (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	brand_name       TEXT NOT NULL,
	brand_contact    TEXT NOT NULL DEFAULT '',
	product_name     TEXT NOT NULL,
	product_value    REAL NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'received',
	received_at      TEXT NOT NULL,
	content          TEXT,
	metrics          TEXT,
	follow_up_date   TEXT NOT NULL DEFAULT '',
	follow_up_sent   INTEGER NOT NULL DEFAULT 0,
	converted_amount REAL NOT NULL DEFAULT 0,
	resolved_at      TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '[]',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_offer_records_owner ON offer_records (owner_id);
`

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{
		inner: NewMemoryStore(),
		db:    db,
	}

	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.db.Query(`SELECT id, owner_id, brand_name, brand_contact, product_name, product_value,
		status, received_at, content, metrics, follow_up_date, follow_up_sent,
		converted_amount, resolved_at, notes, created_at, updated_at
		FROM offer_records`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec OfferRecord
		var status, receivedAt, followUpDate, resolvedAt, notesJSON, createdAt, updatedAt string
		var contentJSON, metricsJSON sql.NullString
		var followUpSent int
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.BrandName, &rec.BrandContact, &rec.ProductName, &rec.ProductValue,
			&status, &receivedAt, &contentJSON, &metricsJSON, &followUpDate, &followUpSent,
			&rec.ConvertedAmount, &resolvedAt, &notesJSON, &createdAt, &updatedAt); err != nil {
			return err
		}
		rec.Status = Status(status)
		rec.ReceivedAt, _ = time.Parse(time.RFC3339Nano, receivedAt)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		rec.FollowUpSent = followUpSent != 0
		if contentJSON.Valid && contentJSON.String != "" {
			var c ContentInfo
			if err := json.Unmarshal([]byte(contentJSON.String), &c); err == nil {
				rec.Content = &c
			}
		}
		if metricsJSON.Valid && metricsJSON.String != "" {
			var m EngagementMetrics
			if err := json.Unmarshal([]byte(metricsJSON.String), &m); err == nil {
				rec.Metrics = &m
			}
		}
		if followUpDate != "" {
			if t, err := time.Parse(time.RFC3339Nano, followUpDate); err == nil {
				rec.FollowUpDate = &t
			}
		}
		if resolvedAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, resolvedAt); err == nil {
				rec.ResolvedAt = &t
			}
		}
		_ = json.Unmarshal([]byte(notesJSON), &rec.Notes)

		cp := rec
		s.inner.records[rec.ID] = &cp
	}
	return rows.Err()
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func timePtrToString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeToString(*t)
}

func nullableJSON(v any) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func marshalNotes(notes []Note) string {
	if notes == nil {
		notes = []Note{}
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteStore) saveRecord(rec *OfferRecord) error {
	var contentJSON, metricsJSON sql.NullString
	if rec.Content != nil {
		contentJSON = nullableJSON(rec.Content)
	}
	if rec.Metrics != nil {
		metricsJSON = nullableJSON(rec.Metrics)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO offer_records (id, owner_id, brand_name, brand_contact, product_name, product_value,
		status, received_at, content, metrics, follow_up_date, follow_up_sent,
		converted_amount, resolved_at, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.OwnerID,
		rec.BrandName,
		rec.BrandContact,
		rec.ProductName,
		rec.ProductValue,
		string(rec.Status),
		timeToString(rec.ReceivedAt),
		contentJSON,
		metricsJSON,
		timePtrToString(rec.FollowUpDate),
		boolToInt(rec.FollowUpSent),
		rec.ConvertedAmount,
		timePtrToString(rec.ResolvedAt),
		marshalNotes(rec.Notes),
		timeToString(rec.CreatedAt),
		timeToString(rec.UpdatedAt),
	)
	return err
}

// persist mirrors a successful in-memory write to disk.
func (s *SQLiteStore) persist(rec *OfferRecord, err error) (*OfferRecord, error) {
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if perr := s.saveRecord(rec); perr != nil {
		return nil, NewInternalError("persist record: " + perr.Error())
	}
	return rec, nil
}

// --- Store implementation ---

func (s *SQLiteStore) Create(in CreateInput) (*OfferRecord, error) {
	return s.persist(s.inner.Create(in))
}

func (s *SQLiteStore) Get(ownerID, id string) (*OfferRecord, error) {
	return s.inner.Get(ownerID, id)
}

func (s *SQLiteStore) List(ownerID string, status Status) []OfferRecord {
	return s.inner.List(ownerID, status)
}

func (s *SQLiteStore) AddContent(ownerID, id string, info ContentInfo) (*OfferRecord, error) {
	return s.persist(s.inner.AddContent(ownerID, id, info))
}

func (s *SQLiteStore) UpdateMetrics(ownerID, id string, m EngagementMetrics) (*OfferRecord, error) {
	return s.persist(s.inner.UpdateMetrics(ownerID, id, m))
}

func (s *SQLiteStore) AddNote(ownerID, id, text string) (*OfferRecord, error) {
	return s.persist(s.inner.AddNote(ownerID, id, text))
}

func (s *SQLiteStore) LogFollowUp(ownerID, id string) (*OfferRecord, error) {
	return s.persist(s.inner.LogFollowUp(ownerID, id))
}

func (s *SQLiteStore) MarkConverted(ownerID, id string, amount float64) (*OfferRecord, error) {
	return s.persist(s.inner.MarkConverted(ownerID, id, amount))
}

func (s *SQLiteStore) MarkDeclined(ownerID, id string) (*OfferRecord, error) {
	return s.persist(s.inner.MarkDeclined(ownerID, id))
}

func (s *SQLiteStore) Archive(ownerID, id string) (*OfferRecord, error) {
	return s.persist(s.inner.Archive(ownerID, id))
}

func (s *SQLiteStore) Delete(ownerID, id string) error {
	if err := s.inner.Delete(ownerID, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM offer_records WHERE id = ?`, id); err != nil {
		return NewInternalError("delete record: " + err.Error())
	}
	return nil
}

func (s *SQLiteStore) FollowUpsDue(ownerID string) []OfferRecord {
	return s.inner.FollowUpsDue(ownerID)
}

func (s *SQLiteStore) ReadyToConvert(ownerID string) []OfferRecord {
	return s.inner.ReadyToConvert(ownerID)
}

func (s *SQLiteStore) Analytics(ownerID string) Analytics {
	return s.inner.Analytics(ownerID)
}

var _ Store = (*SQLiteStore)(nil)
