package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"undergraduation-admin/internal/models"
)

// MemoryStore keeps everything in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mutex sync.RWMutex

	students       map[string]*models.Student
	interactions   map[string][]models.Interaction
	communications map[string][]models.Communication
	notes          map[string][]models.Note
	tasks          map[string][]models.Task
	staff          map[string]*models.Staff
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students:       make(map[string]*models.Student),
		interactions:   make(map[string][]models.Interaction),
		communications: make(map[string][]models.Communication),
		notes:          make(map[string][]models.Note),
		tasks:          make(map[string][]models.Task),
		staff:          make(map[string]*models.Staff),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }

// Students

func (m *MemoryStore) UpsertStudent(_ context.Context, s *models.Student) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if s.ID == "" {
		s.ID = newID("stu")
	}
	s.Flags = models.NewFlags(s.Flags...)
	cp := copyStudent(*s)
	m.students[s.ID] = &cp
	return nil
}

func (m *MemoryStore) ListStudents(context.Context) ([]models.Student, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, copyStudent(*s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastActiveAt.Equal(out[j].LastActiveAt) {
			return out[i].LastActiveAt.After(out[j].LastActiveAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) GetStudent(_ context.Context, id string) (*models.Student, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copyStudent(*s)
	return &cp, nil
}

func (m *MemoryStore) UpdateStudent(_ context.Context, id string, upd models.StudentUpdate) (*models.Student, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Email != nil {
		s.Email = *upd.Email
	}
	if upd.Phone != nil {
		s.Phone = *upd.Phone
	}
	if upd.Grade != nil {
		s.Grade = *upd.Grade
	}
	if upd.Country != nil {
		s.Country = *upd.Country
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	if upd.LastActiveAt != nil {
		s.LastActiveAt = *upd.LastActiveAt
	}
	if upd.Flags != nil {
		s.Flags = models.NewFlags(upd.Flags...)
	}
	cp := copyStudent(*s)
	return &cp, nil
}

func (m *MemoryStore) SetStudentFlags(_ context.Context, id string, flags models.Flags) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, ok := m.students[id]
	if !ok {
		return ErrNotFound
	}
	s.Flags = models.NewFlags(flags...)
	return nil
}

// Communications

func (m *MemoryStore) AddCommunication(_ context.Context, c *models.Communication) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if c.ID == "" {
		c.ID = newID("comm")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	if c.Delivery != nil {
		d := *c.Delivery
		cp.Delivery = &d
	}
	m.communications[c.StudentID] = append(m.communications[c.StudentID], cp)

	if s, ok := m.students[c.StudentID]; ok {
		s.CommunicationsCount++
		if s.LastCommunicationAt == nil || !c.CreatedAt.Before(*s.LastCommunicationAt) {
			at := c.CreatedAt
			s.LastCommunicationAt = &at
			s.LastCommunicationChannel = c.Channel
		}
	}
	return nil
}

func (m *MemoryStore) ListCommunications(_ context.Context, studentID string) ([]models.Communication, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return newestFirst(m.communications[studentID], func(c models.Communication) time.Time { return c.CreatedAt }), nil
}

func (m *MemoryStore) ListCommunicationsFor(_ context.Context, studentIDs []string) (models.CommsByStudent, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := models.CommsByStudent{}
	add := func(id string) {
		if list, ok := m.communications[id]; ok && len(list) > 0 {
			out[id] = newestFirst(list, func(c models.Communication) time.Time { return c.CreatedAt })
		}
	}
	if studentIDs == nil {
		for id := range m.communications {
			add(id)
		}
		return out, nil
	}
	for _, id := range studentIDs {
		add(id)
	}
	return out, nil
}

func (m *MemoryStore) UpdateCommunication(_ context.Context, studentID, commID string, upd models.UpdateCommunicationRequest) (*models.Communication, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	list := m.communications[studentID]
	for i := range list {
		if list[i].ID != commID {
			continue
		}
		if upd.Subject != nil {
			list[i].Subject = *upd.Subject
		}
		if upd.Body != nil {
			list[i].Body = *upd.Body
		}
		cp := list[i]
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteCommunication(_ context.Context, studentID, commID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	list, removed := removeByID(m.communications[studentID], commID, func(c models.Communication) string { return c.ID })
	if !removed {
		return ErrNotFound
	}
	m.communications[studentID] = list

	if s, ok := m.students[studentID]; ok {
		s.CommunicationsCount = len(list)
		s.LastCommunicationAt = nil
		s.LastCommunicationChannel = ""
		for _, c := range list {
			if s.LastCommunicationAt == nil || c.CreatedAt.After(*s.LastCommunicationAt) {
				at := c.CreatedAt
				s.LastCommunicationAt = &at
				s.LastCommunicationChannel = c.Channel
			}
		}
	}
	return nil
}

// Interactions, notes and tasks

func (m *MemoryStore) AddInteraction(_ context.Context, i *models.Interaction) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if i.ID == "" {
		i.ID = newID("int")
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
	cp := *i
	if i.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(i.Metadata))
		for k, v := range i.Metadata {
			cp.Metadata[k] = v
		}
	}
	m.interactions[i.StudentID] = append(m.interactions[i.StudentID], cp)
	return nil
}

func (m *MemoryStore) ListInteractions(_ context.Context, studentID string) ([]models.Interaction, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return newestFirst(m.interactions[studentID], func(i models.Interaction) time.Time { return i.CreatedAt }), nil
}

func (m *MemoryStore) AddNote(_ context.Context, n *models.Note) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if n.ID == "" {
		n.ID = newID("note")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notes[n.StudentID] = append(m.notes[n.StudentID], *n)
	return nil
}

func (m *MemoryStore) ListNotes(_ context.Context, studentID string) ([]models.Note, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return newestFirst(m.notes[studentID], func(n models.Note) time.Time { return n.CreatedAt }), nil
}

func (m *MemoryStore) UpdateNote(_ context.Context, studentID, noteID, content string) (*models.Note, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i := range m.notes[studentID] {
		n := &m.notes[studentID][i]
		if n.ID == noteID {
			n.Content = content
			cp := *n
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteNote(_ context.Context, studentID, noteID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	list, removed := removeByID(m.notes[studentID], noteID, func(n models.Note) string { return n.ID })
	if !removed {
		return ErrNotFound
	}
	m.notes[studentID] = list
	return nil
}

func (m *MemoryStore) AddTask(_ context.Context, t *models.Task) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if t.ID == "" {
		t.ID = newID("task")
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	m.tasks[t.StudentID] = append(m.tasks[t.StudentID], *t)
	return nil
}

func (m *MemoryStore) ListTasks(_ context.Context, studentID string) ([]models.Task, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return newestFirst(m.tasks[studentID], func(t models.Task) time.Time { return t.CreatedAt }), nil
}

func (m *MemoryStore) UpdateTask(_ context.Context, studentID, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i := range m.tasks[studentID] {
		t := &m.tasks[studentID][i]
		if t.ID != taskID {
			continue
		}
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.DueAt != nil {
			due := *upd.DueAt
			t.DueAt = &due
		}
		if upd.Status != nil {
			t.Status = *upd.Status
		}
		if upd.Assignee != nil {
			t.Assignee = *upd.Assignee
		}
		cp := *t
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteTask(_ context.Context, studentID, taskID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	list, removed := removeByID(m.tasks[studentID], taskID, func(t models.Task) string { return t.ID })
	if !removed {
		return ErrNotFound
	}
	m.tasks[studentID] = list
	return nil
}

// Staff

func (m *MemoryStore) CreateStaff(_ context.Context, s *models.Staff) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s.Email = strings.ToLower(s.Email)
	for _, existing := range m.staff {
		if existing.Email == s.Email {
			return ErrDuplicate
		}
	}
	if s.ID == "" {
		s.ID = newID("staff")
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.staff[s.ID] = &cp
	return nil
}

func (m *MemoryStore) FindStaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	email = strings.ToLower(email)
	return m.findStaff(func(s *models.Staff) bool { return s.Email == email })
}

func (m *MemoryStore) FindStaffByID(_ context.Context, id string) (*models.Staff, error) {
	return m.findStaff(func(s *models.Staff) bool { return s.ID == id })
}

func (m *MemoryStore) FindStaffByGoogleID(_ context.Context, googleID string) (*models.Staff, error) {
	if googleID == "" {
		return nil, ErrNotFound
	}
	return m.findStaff(func(s *models.Staff) bool { return s.GoogleID == googleID })
}

func (m *MemoryStore) UpdateStaff(_ context.Context, s *models.Staff) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, ok := m.staff[s.ID]
	if !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now()
	existing.Name = s.Name
	existing.Picture = s.Picture
	existing.Provider = s.Provider
	existing.GoogleID = s.GoogleID
	existing.UpdatedAt = s.UpdatedAt
	return nil
}

func (m *MemoryStore) findStaff(match func(*models.Staff) bool) (*models.Staff, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, s := range m.staff {
		if match(s) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func copyStudent(s models.Student) models.Student {
	s.Flags = append(models.Flags{}, s.Flags...)
	if s.LastCommunicationAt != nil {
		at := *s.LastCommunicationAt
		s.LastCommunicationAt = &at
	}
	return s
}

// newestFirst returns a sorted copy of list, newest record first.
func newestFirst[T any](list []T, at func(T) time.Time) []T {
	out := make([]T, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return out
}

func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(list))
	removed := false
	for _, item := range list {
		if idOf(item) == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
