package tracker

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the lifecycle persistence API. Every read and write is scoped to
// the owning holder; a record reached with the wrong holder ID is a
// forbidden error, not a not-found.
type Store interface {
	Create(in CreateInput) (*OfferRecord, error)
	Get(ownerID, id string) (*OfferRecord, error)
	List(ownerID string, status Status) []OfferRecord
	AddContent(ownerID, id string, info ContentInfo) (*OfferRecord, error)
	UpdateMetrics(ownerID, id string, m EngagementMetrics) (*OfferRecord, error)
	AddNote(ownerID, id, text string) (*OfferRecord, error)
	LogFollowUp(ownerID, id string) (*OfferRecord, error)
	MarkConverted(ownerID, id string, amount float64) (*OfferRecord, error)
	MarkDeclined(ownerID, id string) (*OfferRecord, error)
	Archive(ownerID, id string) (*OfferRecord, error)
	Delete(ownerID, id string) error
	FollowUpsDue(ownerID string) []OfferRecord
	ReadyToConvert(ownerID string) []OfferRecord
	Analytics(ownerID string) Analytics
	Close() error
}

// MemoryStore keeps all records in memory, guarded by a single mutex.
// The clock is injectable so transition timestamps are testable.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*OfferRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*OfferRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Create(in CreateInput) (*OfferRecord, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, NewValidationError("owner id is required")
	}
	if strings.TrimSpace(in.BrandName) == "" {
		return nil, NewValidationError("brand name is required")
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return nil, NewValidationError("product name is required")
	}
	if in.ProductValue < 0 {
		return nil, NewValidationError("product value cannot be negative")
	}

	now := s.now()
	rec := &OfferRecord{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		BrandName:    strings.TrimSpace(in.BrandName),
		BrandContact: strings.TrimSpace(in.BrandContact),
		ProductName:  strings.TrimSpace(in.ProductName),
		ProductValue: in.ProductValue,
		Status:       StatusReceived,
		ReceivedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if text := strings.TrimSpace(in.Note); text != "" {
		rec.Notes = append(rec.Notes, Note{At: now, Text: text})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Get(ownerID, id string) (*OfferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// List returns the holder's records newest-first. A non-empty status narrows
// the result to that state.
func (s *MemoryStore) List(ownerID string, status Status) []OfferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []OfferRecord{}
	for _, rec := range s.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, *cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out
}

// AddContent records posted content and moves the record to content_created.
// The follow-up date is fixed at posting time plus the standard delay.
func (s *MemoryStore) AddContent(ownerID, id string, info ContentInfo) (*OfferRecord, error) {
	if info.PostedAt.IsZero() {
		return nil, NewValidationError("posted_at is required")
	}
	if strings.TrimSpace(info.ContentType) == "" {
		return nil, NewValidationError("content_type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusReceived {
		return nil, NewValidationError("content can only be added to a received offer, current status is " + string(rec.Status))
	}

	infoCopy := info
	followUp := info.PostedAt.Add(FollowUpDelay)
	rec.Content = &infoCopy
	rec.Status = StatusContentCreated
	rec.FollowUpDate = &followUp
	rec.UpdatedAt = s.now()
	return cloneRecord(rec), nil
}

func (s *MemoryStore) UpdateMetrics(ownerID, id string, m EngagementMetrics) (*OfferRecord, error) {
	if m.Views < 0 || m.Likes < 0 || m.Comments < 0 || m.Saves < 0 || m.Shares < 0 {
		return nil, NewValidationError("engagement counts cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	if rec.Content == nil {
		return nil, NewValidationError("metrics require posted content")
	}

	mCopy := m
	rec.Metrics = &mCopy
	rec.UpdatedAt = s.now()
	return cloneRecord(rec), nil
}

func (s *MemoryStore) AddNote(ownerID, id, text string) (*OfferRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("note text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rec.Notes = append(rec.Notes, Note{At: now, Text: text})
	rec.UpdatedAt = now
	return cloneRecord(rec), nil
}

// LogFollowUp marks the post-content follow-up as sent and moves the record
// to followed_up.
func (s *MemoryStore) LogFollowUp(ownerID, id string) (*OfferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusContentCreated {
		return nil, NewValidationError("follow-up requires posted content, current status is " + string(rec.Status))
	}

	now := s.now()
	rec.Status = StatusFollowedUp
	rec.FollowUpSent = true
	rec.Notes = append(rec.Notes, Note{At: now, Text: "Follow-up sent to brand"})
	rec.UpdatedAt = now
	return cloneRecord(rec), nil
}

func (s *MemoryStore) MarkConverted(ownerID, id string, amount float64) (*OfferRecord, error) {
	if amount <= 0 {
		return nil, NewValidationError("converted amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	if isTerminal(rec.Status) {
		return nil, NewValidationError("cannot convert from terminal status " + string(rec.Status))
	}

	now := s.now()
	rec.Status = StatusConverted
	rec.ConvertedAmount = amount
	rec.ResolvedAt = &now
	rec.Notes = append(rec.Notes, Note{At: now, Text: fmt.Sprintf("Converted to paid deal: $%.2f", amount)})
	rec.UpdatedAt = now
	return cloneRecord(rec), nil
}

func (s *MemoryStore) MarkDeclined(ownerID, id string) (*OfferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	if isTerminal(rec.Status) {
		return nil, NewValidationError("cannot decline from terminal status " + string(rec.Status))
	}

	now := s.now()
	rec.Status = StatusDeclined
	rec.ResolvedAt = &now
	rec.Notes = append(rec.Notes, Note{At: now, Text: "Offer declined"})
	rec.UpdatedAt = now
	return cloneRecord(rec), nil
}

// Archive is reachable from any state, including terminal ones.
func (s *MemoryStore) Archive(ownerID, id string) (*OfferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	rec.Status = StatusArchived
	rec.UpdatedAt = s.now()
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Delete(ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(ownerID, id); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

// FollowUpsDue lists records whose follow-up date has passed and whose
// follow-up has not been sent.
func (s *MemoryStore) FollowUpsDue(ownerID string) []OfferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := []OfferRecord{}
	for _, rec := range s.records {
		if rec.OwnerID != ownerID || rec.Status != StatusContentCreated {
			continue
		}
		if rec.FollowUpSent || rec.FollowUpDate == nil || rec.FollowUpDate.After(now) {
			continue
		}
		out = append(out, *cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FollowUpDate.Before(*out[j].FollowUpDate) })
	return out
}

// ReadyToConvert lists records with live content, no follow-up sent yet, and
// an engagement score clearing the conversion threshold.
func (s *MemoryStore) ReadyToConvert(ownerID string) []OfferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []OfferRecord{}
	for _, rec := range s.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if rec.Status != StatusContentCreated || rec.FollowUpSent {
			continue
		}
		if rec.Metrics == nil || rec.Metrics.Score() < ReadyToConvertThreshold {
			continue
		}
		out = append(out, *cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metrics.Score() > out[j].Metrics.Score() })
	return out
}

func (s *MemoryStore) Analytics(ownerID string) Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]*OfferRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			recs = append(recs, rec)
		}
	}
	return computeAnalytics(recs, s.now())
}

// lookup resolves a record under the caller-held lock and enforces
// ownership.
func (s *MemoryStore) lookup(ownerID, id string) (*OfferRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	if rec.OwnerID != ownerID {
		return nil, NewForbiddenError(id)
	}
	return rec, nil
}

func isTerminal(st Status) bool {
	return st == StatusConverted || st == StatusDeclined || st == StatusArchived
}

func cloneRecord(rec *OfferRecord) *OfferRecord {
	cp := *rec
	if rec.Content != nil {
		c := *rec.Content
		cp.Content = &c
	}
	if rec.Metrics != nil {
		m := *rec.Metrics
		cp.Metrics = &m
	}
	if rec.FollowUpDate != nil {
		d := *rec.FollowUpDate
		cp.FollowUpDate = &d
	}
	if rec.ResolvedAt != nil {
		r := *rec.ResolvedAt
		cp.ResolvedAt = &r
	}
	if rec.Notes != nil {
		cp.Notes = append([]Note(nil), rec.Notes...)
	}
	return &cp
}

var _ Store = (*MemoryStore)(nil)
