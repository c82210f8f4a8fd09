package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"workspace-api/core/database"
	"workspace-api/modules/meeting/entity"
	"workspace-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// fakeDB stands in for the connection pool in tests whose repositories are
// in-memory fakes; Transact just runs fn against itself.
type fakeDB struct{}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) error {
	return nil
}

func (f *fakeDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return sql.ErrNoRows
}

func (f *fakeDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (f *fakeDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (f *fakeDB) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return nil, nil
}

func (f *fakeDB) Transact(ctx context.Context, fn func(database.IDatabase) error) error {
	return fn(f)
}

// fakeMeetingRepo keeps meetings in a map and counts writes so tests can
// assert on the exact write set a reconciliation produced.
type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entity.Meeting
	inserts  int
	updates  int
	deletes  int
	locked   []uuid.UUID
}

func newFakeMeetingRepo(seed ...*entity.Meeting) *fakeMeetingRepo {
	r := &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entity.Meeting)}
	for _, m := range seed {
		cp := *m
		if cp.ID == uuid.Nil {
			cp.ID = uuid.New()
		}
		r.meetings[cp.ID] = &cp
	}
	return r
}

func (r *fakeMeetingRepo) WithTx(db database.IDatabase) repository.MeetingRepositoryInterface {
	return r
}

func (r *fakeMeetingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok || m.UserID != userID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Meeting, error) {
	var out []entity.Meeting
	for _, m := range r.meetings {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *fakeMeetingRepo) GetChildren(ctx context.Context, parentID uuid.UUID) ([]entity.Meeting, error) {
	var out []entity.Meeting
	for _, m := range r.meetings {
		if m.RecurrenceParentID != nil && *m.RecurrenceParentID == parentID {
			out = append(out, *m)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *fakeMeetingRepo) Insert(ctx context.Context, meeting *entity.Meeting) error {
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	meeting.CreatedAt = time.Now()
	meeting.UpdatedAt = meeting.CreatedAt
	cp := *meeting
	r.meetings[cp.ID] = &cp
	r.inserts++
	return nil
}

func (r *fakeMeetingRepo) Update(ctx context.Context, meeting *entity.Meeting) error {
	cp := *meeting
	cp.UpdatedAt = time.Now()
	r.meetings[cp.ID] = &cp
	r.updates++
	return nil
}

func (r *fakeMeetingRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, ok := r.meetings[id]; ok {
			delete(r.meetings, id)
			r.deletes++
		}
	}
	return nil
}

func (r *fakeMeetingRepo) LockSeries(ctx context.Context, headID uuid.UUID) error {
	r.locked = append(r.locked, headID)
	return nil
}

// seriesMembers returns the head plus its children in date order, mirroring
// what the reconciler sees.
func (r *fakeMeetingRepo) seriesMembers(headID uuid.UUID) []entity.Meeting {
	head, ok := r.meetings[headID]
	if !ok {
		return nil
	}
	out := []entity.Meeting{*head}
	children, _ := r.GetChildren(context.Background(), headID)
	return append(out, children...)
}

func sortByDate(meetings []entity.Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		a, b := meetings[i].StartsAt, meetings[j].StartsAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return meetings[i].InstanceIndex < meetings[j].InstanceIndex
	})
}

// fakeRuleRepo stores one rule per series head keyed by meeting id.
type fakeRuleRepo struct {
	rules   map[uuid.UUID]*entity.RecurrenceRule
	upserts int
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*entity.RecurrenceRule)}
}

func (r *fakeRuleRepo) WithTx(db database.IDatabase) repository.RecurrenceRepositoryInterface {
	return r
}

func (r *fakeRuleRepo) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entity.RecurrenceRule, error) {
	rule, ok := r.rules[meetingID]
	if !ok {
		return nil, nil
	}
	cp := *rule
	return &cp, nil
}

func (r *fakeRuleRepo) Upsert(ctx context.Context, rule *entity.RecurrenceRule) error {
	if existing, ok := r.rules[rule.MeetingID]; ok {
		rule.ID = existing.ID
	} else if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	cp := *rule
	r.rules[cp.MeetingID] = &cp
	r.upserts++
	return nil
}

func (r *fakeRuleRepo) Update(ctx context.Context, rule *entity.RecurrenceRule) error {
	cp := *rule
	r.rules[cp.MeetingID] = &cp
	return nil
}

func (r *fakeRuleRepo) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	delete(r.rules, meetingID)
	return nil
}

// fakeAttendeeRepo keeps attendee rows in a slice and honors the
// (meeting, contact) uniqueness the real table enforces.
type fakeAttendeeRepo struct {
	rows []entity.MeetingAttendee
}

func (r *fakeAttendeeRepo) WithTx(db database.IDatabase) repository.AttendeeRepositoryInterface {
	return r
}

func (r *fakeAttendeeRepo) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingAttendee, error) {
	var out []entity.MeetingAttendee
	for _, row := range r.rows {
		if row.MeetingID == meetingID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeAttendeeRepo) BulkInsert(ctx context.Context, attendees []entity.MeetingAttendee) error {
	for _, a := range attendees {
		if r.has(a.MeetingID, a.ContactID) {
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		r.rows = append(r.rows, a)
	}
	return nil
}

func (r *fakeAttendeeRepo) DeleteByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(meetingIDs))
	for _, id := range meetingIDs {
		drop[id] = true
	}
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !drop[row.MeetingID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeAttendeeRepo) has(meetingID, contactID uuid.UUID) bool {
	for _, row := range r.rows {
		if row.MeetingID == meetingID && row.ContactID == contactID {
			return true
		}
	}
	return false
}

// fakeTagRepo keeps tags keyed by user+slug plus their meeting associations.
type fakeTagRepo struct {
	tags  []entity.Tag
	links []entity.MeetingTag
}

func (r *fakeTagRepo) WithTx(db database.IDatabase) repository.TagRepositoryInterface {
	return r
}

func (r *fakeTagRepo) UpsertTag(ctx context.Context, tag *entity.Tag) error {
	for i := range r.tags {
		if r.tags[i].UserID == tag.UserID && r.tags[i].Slug == tag.Slug {
			r.tags[i].Name = tag.Name
			tag.ID = r.tags[i].ID
			tag.CreatedAt = r.tags[i].CreatedAt
			return nil
		}
	}
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	tag.CreatedAt = time.Now()
	r.tags = append(r.tags, *tag)
	return nil
}

func (r *fakeTagRepo) ListTagsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.Tag, error) {
	var out []entity.Tag
	for _, link := range r.links {
		if link.MeetingID != meetingID {
			continue
		}
		for _, tag := range r.tags {
			if tag.ID == link.TagID {
				out = append(out, tag)
			}
		}
	}
	return out, nil
}

func (r *fakeTagRepo) ListAssociationsByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.MeetingTag, error) {
	var out []entity.MeetingTag
	for _, link := range r.links {
		if link.MeetingID == meetingID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) BulkInsertAssociations(ctx context.Context, associations []entity.MeetingTag) error {
	for _, link := range associations {
		if r.hasLink(link.MeetingID, link.TagID) {
			continue
		}
		if link.ID == uuid.Nil {
			link.ID = uuid.New()
		}
		r.links = append(r.links, link)
	}
	return nil
}

func (r *fakeTagRepo) DeleteAssociationsByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(meetingIDs))
	for _, id := range meetingIDs {
		drop[id] = true
	}
	kept := r.links[:0]
	for _, link := range r.links {
		if !drop[link.MeetingID] {
			kept = append(kept, link)
		}
	}
	r.links = kept
	return nil
}

func (r *fakeTagRepo) hasLink(meetingID, tagID uuid.UUID) bool {
	for _, link := range r.links {
		if link.MeetingID == meetingID && link.TagID == tagID {
			return true
		}
	}
	return false
}

// fakeViewCache records cache traffic for list-view tests.
type fakeViewCache struct {
	store       map[uuid.UUID]string
	invalidated int
	gets        int
	sets        int
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{store: make(map[uuid.UUID]string)}
}

func (c *fakeViewCache) InvalidateMeetings(ctx context.Context, userID uuid.UUID) {
	delete(c.store, userID)
	c.invalidated++
}

func (c *fakeViewCache) GetMeetings(ctx context.Context, userID uuid.UUID) string {
	c.gets++
	return c.store[userID]
}

func (c *fakeViewCache) SetMeetings(ctx context.Context, userID uuid.UUID, payload string, ttl time.Duration) {
	c.sets++
	c.store[userID] = payload
}
