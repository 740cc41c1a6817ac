package tracker

import (
	"errors"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	s.now = func() time.Time { return testEpoch }
	return s
}

func mustCreate(t *testing.T, s *MemoryStore, owner string) *OfferRecord {
	t.Helper()
	rec, err := s.Create(CreateInput{
		OwnerID:      owner,
		BrandName:    "GlowCo",
		ProductName:  "Vitamin C Serum",
		ProductValue: 80,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *tracker.Error, got %T: %v", err, err)
	}
	return te.Code
}

func TestCreateValidatesInput(t *testing.T) {
	s := newTestStore(t)
	cases := []CreateInput{
		{BrandName: "GlowCo", ProductName: "Serum"},
		{OwnerID: "h1", ProductName: "Serum"},
		{OwnerID: "h1", BrandName: "GlowCo"},
		{OwnerID: "h1", BrandName: "GlowCo", ProductName: "Serum", ProductValue: -5},
	}
	for i, in := range cases {
		if _, err := s.Create(in); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		} else if errCode(t, err) != CodeValidation {
			t.Fatalf("case %d: code = %s", i, errCode(t, err))
		}
	}
}

func TestCreateStartsReceived(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Create(CreateInput{
		OwnerID:      "h1",
		BrandName:    "  GlowCo  ",
		ProductName:  "Serum",
		ProductValue: 80,
		Note:         "came in via DM",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Status != StatusReceived {
		t.Fatalf("status = %s, want received", rec.Status)
	}
	if rec.BrandName != "GlowCo" {
		t.Fatalf("brand name = %q, want trimmed", rec.BrandName)
	}
	if rec.ID == "" {
		t.Fatal("missing id")
	}
	if len(rec.Notes) != 1 || rec.Notes[0].Text != "came in via DM" {
		t.Fatalf("notes = %+v", rec.Notes)
	}
	if !rec.ReceivedAt.Equal(testEpoch) {
		t.Fatalf("received at = %v", rec.ReceivedAt)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")

	if _, err := s.Get("h2", rec.ID); errCode(t, err) != CodeForbidden {
		t.Fatalf("wrong owner should be forbidden, got %v", err)
	}
	if _, err := s.Get("h1", "no-such-id"); errCode(t, err) != CodeNotFound {
		t.Fatalf("missing id should be not_found, got %v", err)
	}
	if err := s.Delete("h2", rec.ID); errCode(t, err) != CodeForbidden {
		t.Fatalf("cross-owner delete should be forbidden, got %v", err)
	}
	if _, err := s.Get("h1", rec.ID); err != nil {
		t.Fatalf("record should survive forbidden delete: %v", err)
	}
}

func TestAddContentSetsFollowUpDate(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")

	posted := testEpoch.Add(48 * time.Hour)
	got, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "reel", PostedAt: posted})
	if err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if got.Status != StatusContentCreated {
		t.Fatalf("status = %s", got.Status)
	}
	want := posted.Add(14 * 24 * time.Hour)
	if got.FollowUpDate == nil || !got.FollowUpDate.Equal(want) {
		t.Fatalf("follow-up date = %v, want %v", got.FollowUpDate, want)
	}

	// second post on the same record is rejected
	if _, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "story", PostedAt: posted}); errCode(t, err) != CodeValidation {
		t.Fatalf("repeat AddContent should be validation error, got %v", err)
	}
}

func TestMetricsRequireContent(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")

	if _, err := s.UpdateMetrics("h1", rec.ID, EngagementMetrics{Views: 100}); errCode(t, err) != CodeValidation {
		t.Fatalf("metrics without content should fail, got %v", err)
	}
	if _, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "reel", PostedAt: testEpoch}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	if _, err := s.UpdateMetrics("h1", rec.ID, EngagementMetrics{Views: -1}); errCode(t, err) != CodeValidation {
		t.Fatal("negative counts should fail")
	}
	got, err := s.UpdateMetrics("h1", rec.ID, EngagementMetrics{Views: 50000, Likes: 400, Comments: 60})
	if err != nil {
		t.Fatalf("UpdateMetrics: %v", err)
	}
	if got.Metrics == nil || got.Metrics.Views != 50000 {
		t.Fatalf("metrics = %+v", got.Metrics)
	}
}

func TestEngagementScoreWeights(t *testing.T) {
	m := EngagementMetrics{Views: 10000, Likes: 200, Comments: 40, Saves: 30, Shares: 10}
	// 10 + 20 + 20 + 9 + 2
	if got, want := m.Score(), 61.0; got != want {
		t.Fatalf("score = %v, want %v", got, want)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")

	if _, err := s.LogFollowUp("h1", rec.ID); errCode(t, err) != CodeValidation {
		t.Fatal("follow-up before content should fail")
	}
	if _, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "reel", PostedAt: testEpoch}); err != nil {
		t.Fatalf("AddContent: %v", err)
	}
	got, err := s.LogFollowUp("h1", rec.ID)
	if err != nil {
		t.Fatalf("LogFollowUp: %v", err)
	}
	if got.Status != StatusFollowedUp || !got.FollowUpSent {
		t.Fatalf("after follow-up: %+v", got)
	}
	got, err = s.MarkConverted("h1", rec.ID, 450)
	if err != nil {
		t.Fatalf("MarkConverted: %v", err)
	}
	if got.Status != StatusConverted || got.ConvertedAmount != 450 || got.ResolvedAt == nil {
		t.Fatalf("after convert: %+v", got)
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")
	if _, err := s.MarkDeclined("h1", rec.ID); err != nil {
		t.Fatalf("MarkDeclined: %v", err)
	}
	if _, err := s.MarkConverted("h1", rec.ID, 100); errCode(t, err) != CodeValidation {
		t.Fatal("convert after decline should fail")
	}
	if _, err := s.MarkDeclined("h1", rec.ID); errCode(t, err) != CodeValidation {
		t.Fatal("double decline should fail")
	}
	// archive stays reachable from a terminal state
	got, err := s.Archive("h1", rec.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if got.Status != StatusArchived {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestConvertedAmountMustBePositive(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")
	if _, err := s.MarkConverted("h1", rec.ID, 0); errCode(t, err) != CodeValidation {
		t.Fatal("zero amount should fail")
	}
}

func TestListFiltersByOwnerAndStatus(t *testing.T) {
	s := newTestStore(t)
	a := mustCreate(t, s, "h1")
	mustCreate(t, s, "h1")
	mustCreate(t, s, "h2")

	if _, err := s.MarkDeclined("h1", a.ID); err != nil {
		t.Fatalf("MarkDeclined: %v", err)
	}

	if got := len(s.List("h1", "")); got != 2 {
		t.Fatalf("h1 records = %d, want 2", got)
	}
	if got := len(s.List("h1", StatusDeclined)); got != 1 {
		t.Fatalf("declined = %d, want 1", got)
	}
	if got := len(s.List("h3", "")); got != 0 {
		t.Fatalf("unknown owner records = %d, want 0", got)
	}
}

func TestFollowUpsDue(t *testing.T) {
	s := newTestStore(t)
	due := mustCreate(t, s, "h1")
	fresh := mustCreate(t, s, "h1")
	done := mustCreate(t, s, "h1")

	// posted 15 days ago: due
	if _, err := s.AddContent("h1", due.ID, ContentInfo{ContentType: "reel", PostedAt: testEpoch.Add(-15 * 24 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	// posted yesterday: not due for 13 more days
	if _, err := s.AddContent("h1", fresh.ID, ContentInfo{ContentType: "post", PostedAt: testEpoch.Add(-24 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	// due but already followed up
	if _, err := s.AddContent("h1", done.ID, ContentInfo{ContentType: "post", PostedAt: testEpoch.Add(-20 * 24 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LogFollowUp("h1", done.ID); err != nil {
		t.Fatal(err)
	}

	got := s.FollowUpsDue("h1")
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("due = %+v, want only %s", got, due.ID)
	}
}

func TestReadyToConvertThreshold(t *testing.T) {
	s := newTestStore(t)
	hot := mustCreate(t, s, "h1")
	cold := mustCreate(t, s, "h1")

	for _, rec := range []*OfferRecord{hot, cold} {
		if _, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "reel", PostedAt: testEpoch}); err != nil {
			t.Fatal(err)
		}
	}
	// 50 + 40 + 15 = 105, clears the threshold
	if _, err := s.UpdateMetrics("h1", hot.ID, EngagementMetrics{Views: 50000, Likes: 400, Comments: 30}); err != nil {
		t.Fatal(err)
	}
	// 10 + 5 = 15, well below
	if _, err := s.UpdateMetrics("h1", cold.ID, EngagementMetrics{Views: 10000, Likes: 50}); err != nil {
		t.Fatal(err)
	}

	got := s.ReadyToConvert("h1")
	if len(got) != 1 || got[0].ID != hot.ID {
		t.Fatalf("ready = %+v, want only %s", got, hot.ID)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")
	if err := s.Delete("h1", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("h1", rec.ID); errCode(t, err) != CodeNotFound {
		t.Fatal("deleted record should be gone")
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, "h1")
	if _, err := s.AddContent("h1", rec.ID, ContentInfo{ContentType: "reel", PostedAt: testEpoch}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("h1", rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.BrandName = "mutated"
	got.Content.ContentType = "mutated"

	again, err := s.Get("h1", rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.BrandName != "GlowCo" || again.Content.ContentType != "reel" {
		t.Fatalf("store state leaked through returned pointer: %+v", again)
	}
}
