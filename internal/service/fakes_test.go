package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/events"
	"github.com/spec-kit/charting-service/internal/repository"
)

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byMail: map[string]*domain.Account{}}
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	m.byMail[a.Email] = &stored
	return nil
}

func (m *memAccounts) Update(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[a.Email]; !ok {
		return pgx.ErrNoRows
	}
	stored := *a
	m.byMail[a.Email] = &stored
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byMail {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byMail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (m *memAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byMail[email]
	return ok, nil
}

func (m *memAccounts) remove(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byMail, email)
}

type memPatients struct {
	nextID   int64
	rows     map[int64]*domain.Patient
	lastList repository.PatientFilter
}

func newMemPatients() *memPatients {
	return &memPatients{rows: map[int64]*domain.Patient{}}
}

func (m *memPatients) Create(_ context.Context, p *domain.Patient) error {
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.rows[p.ID] = &stored
	return nil
}

func (m *memPatients) Update(_ context.Context, p *domain.Patient) error {
	if _, ok := m.rows[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *p
	m.rows[p.ID] = &stored
	return nil
}

func (m *memPatients) GetByID(_ context.Context, id int64) (*domain.Patient, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (m *memPatients) GetByMRN(_ context.Context, mrn string) (*domain.Patient, error) {
	for _, p := range m.rows {
		if p.MedicalRecordNumber == mrn {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memPatients) ListActive(_ context.Context, filter repository.PatientFilter) ([]domain.Patient, error) {
	m.lastList = filter
	out := []domain.Patient{}
	for _, p := range m.rows {
		if !p.Active {
			continue
		}
		if filter.NameLike != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.NameLike))
			if !strings.Contains(strings.ToLower(p.FirstName), term) && !strings.Contains(strings.ToLower(p.LastName), term) {
				continue
			}
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPatients) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.ListActive(ctx, repository.PatientFilter{})
	return int64(len(list)), nil
}

func (m *memPatients) Discharge(_ context.Context, id int64, at time.Time) error {
	p, ok := m.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Active = false
	p.DischargeDate = &at
	return nil
}

type memVitals struct {
	entries   []domain.VitalSignsEntry
	lastLimit int
}

func (m *memVitals) Create(_ context.Context, v *domain.VitalSignsEntry) error {
	v.ID = int64(len(m.entries) + 1)
	v.CreatedAt = time.Now()
	m.entries = append(m.entries, *v)
	return nil
}

func (m *memVitals) sorted(patientID int64) []domain.VitalSignsEntry {
	out := []domain.VitalSignsEntry{}
	for _, e := range m.entries {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

func (m *memVitals) History(_ context.Context, patientID int64, limit int) ([]domain.VitalSignsEntry, error) {
	m.lastLimit = limit
	out := m.sorted(patientID)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memVitals) Latest(_ context.Context, patientID int64) (*domain.VitalSignsEntry, error) {
	out := m.sorted(patientID)
	if len(out) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &out[0], nil
}

func (m *memVitals) Count(_ context.Context, patientID int64) (int64, error) {
	return int64(len(m.sorted(patientID))), nil
}

func (m *memVitals) Since(_ context.Context, patientID int64, since time.Time) ([]domain.VitalSignsEntry, error) {
	out := []domain.VitalSignsEntry{}
	for _, e := range m.sorted(patientID) {
		if !e.RecordedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

type memCharting struct {
	nextID  int64
	rows    map[int64]*domain.ChartingCategory
	creates int
}

func newMemCharting() *memCharting {
	return &memCharting{rows: map[int64]*domain.ChartingCategory{}}
}

func (m *memCharting) Create(_ context.Context, c *domain.ChartingCategory) error {
	m.nextID++
	m.creates++
	c.ID = m.nextID
	stored := *c
	m.rows[c.ID] = &stored
	return nil
}

func (m *memCharting) UpdateContent(_ context.Context, c *domain.ChartingCategory) error {
	stored, ok := m.rows[c.ID]
	if !ok || stored.PatientID != c.PatientID {
		return pgx.ErrNoRows
	}
	stored.Title = c.Title
	stored.Items = c.Items
	return nil
}

func (m *memCharting) GetByID(_ context.Context, patientID, id int64) (*domain.ChartingCategory, error) {
	c, ok := m.rows[id]
	if !ok || c.PatientID != patientID {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (m *memCharting) ListByPatient(_ context.Context, patientID int64) ([]domain.ChartingCategory, error) {
	out := []domain.ChartingCategory{}
	for _, c := range m.rows {
		if c.PatientID == patientID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCharting) Delete(_ context.Context, patientID, id int64) error {
	c, ok := m.rows[id]
	if !ok || c.PatientID != patientID {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

// recordingDispatcher captures published events instead of dispatching them.
type recordingDispatcher struct {
	published []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, event events.Event) {
	r.published = append(r.published, event)
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.published))
	for _, e := range r.published {
		out = append(out, e.Type)
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
