package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"expomeet/internal/domain"
)

// In-memory fakes shared by the service tests. The slot fake guards its map
// with a mutex so the conditional update behaves like the real store under
// concurrent callers.

type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.byID {
		if e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	if upd.Thumbnail != nil {
		e.Thumbnail = upd.Thumbnail
	}
	if upd.StartDate != nil {
		e.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		e.EndDate = *upd.EndDate
	}
	if upd.Location != nil {
		e.Location = upd.Location
	}
	if upd.Format != nil {
		e.Format = *upd.Format
	}
	return e, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeConsultationRepo struct {
	byID   map[string]*domain.Consultation
	nextID int
}

func newFakeConsultationRepo() *fakeConsultationRepo {
	return &fakeConsultationRepo{
		byID:   make(map[string]*domain.Consultation),
		nextID: 1,
	}
}

func (f *fakeConsultationRepo) Create(ctx context.Context, c *domain.Consultation) error {
	for _, existing := range f.byID {
		if existing.EventID == c.EventID && existing.ExhibitorID == c.ExhibitorID {
			return domain.ErrConflict
		}
	}
	c.ID = fmt.Sprintf("cons-%d", f.nextID)
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConsultationRepo) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConsultationRepo) GetByEventAndExhibitor(ctx context.Context, eventID, exhibitorID string) (*domain.Consultation, error) {
	for _, c := range f.byID {
		if c.EventID == eventID && c.ExhibitorID == exhibitorID {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConsultationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Consultation, error) {
	out := []*domain.Consultation{}
	for _, c := range f.byID {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSlotRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.ConsultationSlot
	nextID int

	// beforeCancel, when set, runs at the top of CancelIfBookedBy so tests
	// can interleave writes between a service's pre-read and its conditional
	// cancel.
	beforeCancel func()
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		byID:   make(map[string]*domain.ConsultationSlot),
		nextID: 1,
	}
}

func (f *fakeSlotRepo) clone(s *domain.ConsultationSlot) *domain.ConsultationSlot {
	cp := *s
	if s.ParticipantID != nil {
		pid := *s.ParticipantID
		cp.ParticipantID = &pid
	}
	if s.ParticipantName != nil {
		pname := *s.ParticipantName
		cp.ParticipantName = &pname
	}
	return &cp
}

func (f *fakeSlotRepo) CreateBatch(ctx context.Context, slots []*domain.ConsultationSlot) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range slots {
		s.ID = fmt.Sprintf("slot-%d", f.nextID)
		f.nextID++
		f.byID[s.ID] = f.clone(s)
	}
	return len(slots), nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.ConsultationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		return f.clone(s), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSlotRepo) ListByConsultationID(ctx context.Context, consultationID string) ([]*domain.ConsultationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.ConsultationSlot{}
	for _, s := range f.byID {
		if s.ConsultationID == consultationID {
			out = append(out, f.clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeSlotRepo) ListByParticipantAndStatus(ctx context.Context, participantID string, statuses []domain.SlotStatus) ([]*domain.ConsultationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[domain.SlotStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	out := []*domain.ConsultationSlot{}
	for _, s := range f.byID {
		if s.ParticipantID != nil && *s.ParticipantID == participantID && wanted[s.Status] {
			out = append(out, f.clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeSlotRepo) UpdateStatusIfCurrent(ctx context.Context, slotID string, expected, target domain.SlotStatus, participant *domain.SlotParticipant) (*domain.ConsultationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[slotID]
	if !ok || s.Status != expected {
		return nil, domain.ErrConflict
	}
	s.Status = target
	switch {
	case participant != nil:
		s.ParticipantID = &participant.ID
		s.ParticipantName = &participant.Name
	case !target.AllowsParticipant():
		s.ParticipantID = nil
		s.ParticipantName = nil
	}
	s.UpdatedAt = time.Now()
	return f.clone(s), nil
}

func (f *fakeSlotRepo) CancelIfBookedBy(ctx context.Context, slotID, participantID string) (*domain.ConsultationSlot, error) {
	if f.beforeCancel != nil {
		f.beforeCancel()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[slotID]
	if !ok || s.Status != domain.SlotBooked || s.ParticipantID == nil || *s.ParticipantID != participantID {
		return nil, domain.ErrConflict
	}
	s.Status = domain.SlotCanceled
	s.ParticipantID = nil
	s.ParticipantName = nil
	s.UpdatedAt = time.Now()
	return f.clone(s), nil
}

func (f *fakeSlotRepo) ClearParticipant(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[slotID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = domain.SlotAvailable
	s.ParticipantID = nil
	s.ParticipantName = nil
	return f.clone(s), nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[slotID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, slotID)
	return nil
}

type fakeUserRepo struct {
	byID map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeSeminarRepo struct {
	byID   map[string]*domain.Seminar
	nextID int
}

func newFakeSeminarRepo() *fakeSeminarRepo {
	return &fakeSeminarRepo{
		byID:   make(map[string]*domain.Seminar),
		nextID: 1,
	}
}

func (f *fakeSeminarRepo) Create(ctx context.Context, s *domain.Seminar) error {
	s.ID = fmt.Sprintf("sem-%d", f.nextID)
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSeminarRepo) GetByID(ctx context.Context, id string) (*domain.Seminar, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSeminarRepo) List(ctx context.Context) ([]*domain.Seminar, error) {
	out := make([]*domain.Seminar, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeminarRepo) ListByStatus(ctx context.Context, status domain.SeminarStatus) ([]*domain.Seminar, error) {
	out := []*domain.Seminar{}
	for _, s := range f.byID {
		if s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeminarRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Seminar, error) {
	out := []*domain.Seminar{}
	for _, s := range f.byID {
		if s.EventID != nil && *s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeminarRepo) Update(ctx context.Context, id string, upd domain.SeminarUpdate) (*domain.Seminar, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		s.Title = *upd.Title
	}
	if upd.Description != nil {
		s.Description = upd.Description
	}
	if upd.Price != nil {
		s.Price = *upd.Price
	}
	if upd.Format != nil {
		s.Format = *upd.Format
	}
	return s, nil
}

func (f *fakeSeminarRepo) UpdateStatus(ctx context.Context, id string, status domain.SeminarStatus) (*domain.Seminar, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = status
	s.IsRegistrationOpen = status == domain.SeminarScheduled || status == domain.SeminarOngoing
	return s, nil
}

func (f *fakeSeminarRepo) StartLifecycle(ctx context.Context, id, roomID string) (*domain.Seminar, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = domain.SeminarOngoing
	if roomID != "" {
		s.OnlineRoomID = &roomID
		s.IsRoomOpen = true
	} else {
		s.OnlineRoomID = nil
		s.IsRoomOpen = false
	}
	return s, nil
}

func (f *fakeSeminarRepo) CloseLifecycle(ctx context.Context, id string, status domain.SeminarStatus) (*domain.Seminar, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Status = status
	s.OnlineRoomID = nil
	s.IsRoomOpen = false
	s.IsRegistrationOpen = false
	return s, nil
}

func (f *fakeSeminarRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeParticipantRepo struct {
	participants []*domain.SeminarParticipant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1}
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *domain.SeminarParticipant) error {
	for _, existing := range f.participants {
		if existing.SeminarID == p.SeminarID && existing.UserID == p.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	p.ID = fmt.Sprintf("part-%d", f.nextID)
	f.nextID++
	f.participants = append(f.participants, p)
	return nil
}

func (f *fakeParticipantRepo) GetBySeminarAndUser(ctx context.Context, seminarID, userID string) (*domain.SeminarParticipant, error) {
	for _, p := range f.participants {
		if p.SeminarID == seminarID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) ListBySeminarID(ctx context.Context, seminarID string, params domain.PaginationParams) ([]*domain.SeminarParticipant, int, error) {
	matching := []*domain.SeminarParticipant{}
	for _, p := range f.participants {
		if p.SeminarID == seminarID {
			matching = append(matching, p)
		}
	}
	total := len(matching)
	offset := params.Offset()
	if offset >= total {
		return []*domain.SeminarParticipant{}, total, nil
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	return matching[offset:end], total, nil
}

func (f *fakeParticipantRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.SeminarParticipant, error) {
	out := []*domain.SeminarParticipant{}
	for _, p := range f.participants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRoomService struct {
	mu        sync.Mutex
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeRoomService) CreateRoom(ctx context.Context, name, metadata string) (*domain.LiveRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, name)
	return &domain.LiveRoom{SID: "RM_" + name, Name: name, Metadata: metadata}, nil
}

func (f *fakeRoomService) DeleteRoom(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeRoomService) ListRooms(ctx context.Context) ([]*domain.LiveRoom, error) {
	return nil, nil
}

func (f *fakeRoomService) CreateAccessToken(identity, roomName string, ttl time.Duration) (string, error) {
	return "token-" + identity + "-" + roomName, nil
}

type fakeEmailService struct {
	sent    []*domain.SeminarRegistrationEmailData
	sendErr error
}

func (f *fakeEmailService) SendSeminarRegistration(ctx context.Context, data *domain.SeminarRegistrationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, data)
	return nil
}
