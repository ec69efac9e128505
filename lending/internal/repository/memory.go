package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

var (
	_ Store = (*memory)(nil)
	_ Tx    = (*memoryTx)(nil)
)

type memoryState struct {
	works        map[int64]model.Work
	patrons      map[int64]model.Patron
	reservations map[int64]model.Reservation
	violations   map[int64]model.Violation
	seq          int64
}

func newMemoryState() memoryState {
	return memoryState{
		works:        map[int64]model.Work{},
		patrons:      map[int64]model.Patron{},
		reservations: map[int64]model.Reservation{},
		violations:   map[int64]model.Violation{},
	}
}

// clone copies the maps; entity values carry only immutable pointees so a shallow copy is enough.
func (s memoryState) clone() memoryState {
	c := memoryState{
		works:        make(map[int64]model.Work, len(s.works)),
		patrons:      make(map[int64]model.Patron, len(s.patrons)),
		reservations: make(map[int64]model.Reservation, len(s.reservations)),
		violations:   make(map[int64]model.Violation, len(s.violations)),
		seq:          s.seq,
	}
	for k, v := range s.works {
		c.works[k] = v
	}
	for k, v := range s.patrons {
		c.patrons[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.violations {
		c.violations[k] = v
	}
	return c
}

func (s *memoryState) nextID() int64 {
	s.seq++
	return s.seq
}

// memory is a single-writer store: every transaction works on a copy of the
// state that replaces the committed one only when fn succeeds.
type memory struct {
	mu    sync.Mutex
	state memoryState
	log   *zap.Logger
}

type memoryTx struct {
	state *memoryState
}

func NewMemory(log *zap.Logger) *memory {
	return &memory{
		state: newMemoryState(),
		log:   log.Named("repo"),
	}
}

func (m *memory) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return errs.Storage("tx", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(ctx, &memoryTx{state: &work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memory) read() memoryTx {
	return memoryTx{state: &m.state}
}

func (m *memory) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.GetReservation(ctx, id)
}

func (m *memory) GetWork(ctx context.Context, id int64) (model.Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.GetWork(ctx, id)
}

func (m *memory) GetPatron(ctx context.Context, id int64) (model.Patron, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.GetPatron(ctx, id)
}

func (m *memory) GetPatronByExternalID(ctx context.Context, externalID string) (model.Patron, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.GetPatronByExternalID(ctx, externalID)
}

func (m *memory) HasActiveReservation(ctx context.Context, patronID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.HasActiveReservation(ctx, patronID)
}

func (m *memory) GetActiveReservation(ctx context.Context, patronID int64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.GetActiveReservation(ctx, patronID)
}

func (m *memory) CountActiveViolations(ctx context.Context, patronID int64) (map[model.ViolationKind]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.read()
	return tx.CountActiveViolations(ctx, patronID)
}

func (m *memory) ListWorks(_ context.Context, showAll bool, page, size int) (model.ListWorks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	works := make([]model.Work, 0, len(m.state.works))
	for _, w := range m.state.works {
		if showAll || w.AvailableCopies > 0 {
			works = append(works, w)
		}
	}
	sort.Slice(works, func(i, j int) bool { return works[i].ID < works[j].ID })
	works = paginate(works, page, size)
	return model.ListWorks{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(works)},
		Items:  works,
	}, nil
}

func (m *memory) ListPatrons(_ context.Context, page, size int) (model.ListPatrons, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	patrons := make([]model.Patron, 0, len(m.state.patrons))
	for _, p := range m.state.patrons {
		patrons = append(patrons, p)
	}
	sort.Slice(patrons, func(i, j int) bool { return patrons[i].ID < patrons[j].ID })
	patrons = paginate(patrons, page, size)
	return model.ListPatrons{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(patrons)},
		Items:  patrons,
	}, nil
}

func (m *memory) ListReservations(_ context.Context, f model.ReservationFilter) (model.ListReservations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.selectReservations(func(r model.Reservation) bool {
		return (f.PatronID == nil || r.PatronID == *f.PatronID) &&
			(f.WorkID == nil || r.WorkID == *f.WorkID) &&
			(f.Status == nil || r.Status == *f.Status)
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	items = paginate(items, f.Page, f.Size)
	return model.ListReservations{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (m *memory) ListExpired(_ context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.selectReservations(func(r model.Reservation) bool {
		return r.Status == model.StatusBooked && r.PickupDeadline.Before(now)
	})
	sort.Slice(items, func(i, j int) bool { return items[i].PickupDeadline.Before(items[j].PickupDeadline) })
	return limitTo(items, limit), nil
}

func (m *memory) ListDueForReminder(_ context.Context, from, to time.Time, limit int) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.selectReservations(func(r model.Reservation) bool {
		return !r.ReminderSent && r.DueWithin(from, to.Sub(from))
	})
	sort.Slice(items, func(i, j int) bool { return items[i].DueAt.Before(*items[j].DueAt) })
	return limitTo(items, limit), nil
}

func (m *memory) ListBanned(_ context.Context, threshold int) ([]model.ViolationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byPatron := map[int64]map[model.ViolationKind]int{}
	for _, v := range m.state.violations {
		if !v.Active {
			continue
		}
		if byPatron[v.PatronID] == nil {
			byPatron[v.PatronID] = map[model.ViolationKind]int{}
		}
		byPatron[v.PatronID][v.Kind]++
	}
	out := make([]model.ViolationSummary, 0)
	for patronID, counts := range byPatron {
		if s := model.NewViolationSummary(patronID, counts, threshold); s.Banned {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatronID < out[j].PatronID })
	return out, nil
}

func (m *memory) Stats(_ context.Context) (model.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := model.Stats{
		TotalWorks:   len(m.state.works),
		TotalPatrons: len(m.state.patrons),
	}
	byWork := map[int64]int{}
	byPatron := map[int64]int{}
	for _, r := range m.state.reservations {
		switch {
		case r.Status.Active():
			st.ActiveReservations++
		case r.Status == model.StatusReturned:
			st.CompletedReservations++
		}
		byWork[r.WorkID]++
		byPatron[r.PatronID]++
	}
	for id, n := range byWork {
		w := m.state.works[id]
		st.TopWorks = append(st.TopWorks, model.WorkStat{WorkID: id, Title: w.Title, Author: w.Author, Reservations: n})
	}
	sort.Slice(st.TopWorks, func(i, j int) bool {
		if st.TopWorks[i].Reservations != st.TopWorks[j].Reservations {
			return st.TopWorks[i].Reservations > st.TopWorks[j].Reservations
		}
		return st.TopWorks[i].WorkID < st.TopWorks[j].WorkID
	})
	st.TopWorks = limitTo(st.TopWorks, topWorksLimit)

	for id, n := range byPatron {
		p := m.state.patrons[id]
		st.TopPatrons = append(st.TopPatrons, model.PatronStat{PatronID: id, FirstName: p.FirstName, LastName: p.LastName, Reservations: n})
	}
	sort.Slice(st.TopPatrons, func(i, j int) bool {
		if st.TopPatrons[i].Reservations != st.TopPatrons[j].Reservations {
			return st.TopPatrons[i].Reservations > st.TopPatrons[j].Reservations
		}
		return st.TopPatrons[i].PatronID < st.TopPatrons[j].PatronID
	})
	st.TopPatrons = limitTo(st.TopPatrons, topPatronsLimit)
	return st, nil
}

func (m *memory) selectReservations(keep func(model.Reservation) bool) []model.Reservation {
	items := make([]model.Reservation, 0)
	for _, r := range m.state.reservations {
		if keep(r) {
			items = append(items, r)
		}
	}
	return items
}

func paginate[T any](items []T, page, size int) []T {
	if page == 0 || size == 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func limitTo[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (t *memoryTx) GetReservation(_ context.Context, id int64) (model.Reservation, error) {
	r, ok := t.state.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return r, nil
}

func (t *memoryTx) GetWork(_ context.Context, id int64) (model.Work, error) {
	w, ok := t.state.works[id]
	if !ok {
		return model.Work{}, errs.ErrNotFound
	}
	return w, nil
}

func (t *memoryTx) GetPatron(_ context.Context, id int64) (model.Patron, error) {
	p, ok := t.state.patrons[id]
	if !ok {
		return model.Patron{}, errs.ErrNotFound
	}
	return p, nil
}

func (t *memoryTx) GetPatronByExternalID(_ context.Context, externalID string) (model.Patron, error) {
	for _, p := range t.state.patrons {
		if p.ExternalID == externalID {
			return p, nil
		}
	}
	return model.Patron{}, errs.ErrNotFound
}

func (t *memoryTx) HasActiveReservation(_ context.Context, patronID int64) (bool, error) {
	for _, r := range t.state.reservations {
		if r.PatronID == patronID && r.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) GetActiveReservation(_ context.Context, patronID int64) (model.Reservation, error) {
	for _, r := range t.state.reservations {
		if r.PatronID == patronID && r.Status.Active() {
			return r, nil
		}
	}
	return model.Reservation{}, errs.ErrNotFound
}

func (t *memoryTx) CountActiveViolations(_ context.Context, patronID int64) (map[model.ViolationKind]int, error) {
	counts := map[model.ViolationKind]int{}
	for _, v := range t.state.violations {
		if v.PatronID == patronID && v.Active {
			counts[v.Kind]++
		}
	}
	return counts, nil
}

func (t *memoryTx) DecrementAvailable(_ context.Context, workID int64) error {
	w, ok := t.state.works[workID]
	if !ok {
		return errs.ErrNotFound
	}
	if w.AvailableCopies <= 0 {
		return errs.ErrNoCopyAvailable
	}
	w.AvailableCopies--
	t.state.works[workID] = w
	return nil
}

func (t *memoryTx) IncrementAvailable(_ context.Context, workID int64) error {
	w, ok := t.state.works[workID]
	if !ok {
		return errs.ErrNotFound
	}
	if w.AvailableCopies >= w.TotalCopies {
		return errs.Storage("IncrementAvailable", errors.Errorf("work %d: available copies already at total", workID))
	}
	w.AvailableCopies++
	t.state.works[workID] = w
	return nil
}

func (t *memoryTx) AdjustCopies(_ context.Context, workID int64, delta int) (model.Work, error) {
	w, ok := t.state.works[workID]
	if !ok {
		return model.Work{}, errs.ErrNotFound
	}
	if w.AvailableCopies+delta < 0 {
		return model.Work{}, errs.ErrNoCopyAvailable
	}
	if w.TotalCopies+delta < 1 {
		return model.Work{}, errs.Storage("AdjustCopies", errors.Errorf("work %d: total copies must stay positive", workID))
	}
	w.TotalCopies += delta
	w.AvailableCopies += delta
	t.state.works[workID] = w
	return w, nil
}

func (t *memoryTx) InsertWork(_ context.Context, w model.Work) (model.Work, error) {
	w.ID = t.state.nextID()
	t.state.works[w.ID] = w
	return w, nil
}

func (t *memoryTx) InsertPatron(_ context.Context, p model.Patron) (model.Patron, error) {
	for _, existing := range t.state.patrons {
		if existing.ExternalID == p.ExternalID {
			return model.Patron{}, errors.Wrap(errs.ErrAlreadyExists, "patrons_external_id_uidx")
		}
		if existing.DocumentNumber == p.DocumentNumber {
			return model.Patron{}, errors.Wrap(errs.ErrAlreadyExists, "patrons_document_number_uidx")
		}
	}
	p.ID = t.state.nextID()
	t.state.patrons[p.ID] = p
	return p, nil
}

func (t *memoryTx) SetPrivileged(_ context.Context, patronID int64, privileged bool) (model.Patron, error) {
	p, ok := t.state.patrons[patronID]
	if !ok {
		return model.Patron{}, errs.ErrNotFound
	}
	p.Privileged = privileged
	t.state.patrons[patronID] = p
	return p, nil
}

func (t *memoryTx) InsertReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	if _, ok := t.state.patrons[r.PatronID]; !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if _, ok := t.state.works[r.WorkID]; !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if r.Status.Active() {
		if has, _ := t.HasActiveReservation(ctx, r.PatronID); has {
			return model.Reservation{}, errs.ErrAlreadyReserved
		}
	}
	r.ID = t.state.nextID()
	t.state.reservations[r.ID] = r
	return r, nil
}

func (t *memoryTx) UpdateReservation(_ context.Context, r model.Reservation, expected model.Status) error {
	current, ok := t.state.reservations[r.ID]
	if !ok {
		return errs.ErrNotFound
	}
	if current.Status != expected {
		return &errs.StaleStateError{
			ReservationID: r.ID,
			Expected:      string(expected),
			Actual:        string(current.Status),
		}
	}
	t.state.reservations[r.ID] = r
	return nil
}

func (t *memoryTx) ClaimReminder(_ context.Context, reservationID int64) (bool, error) {
	r, ok := t.state.reservations[reservationID]
	if !ok || r.Status != model.StatusTaken || r.ReminderSent {
		return false, nil
	}
	r.ReminderSent = true
	t.state.reservations[reservationID] = r
	return true, nil
}

func (t *memoryTx) InsertViolation(_ context.Context, v model.Violation) (model.Violation, error) {
	if _, ok := t.state.patrons[v.PatronID]; !ok {
		return model.Violation{}, errs.ErrNotFound
	}
	if v.ReservationID != nil {
		for _, existing := range t.state.violations {
			if existing.ReservationID != nil && *existing.ReservationID == *v.ReservationID && existing.Kind == v.Kind {
				return model.Violation{}, errors.Wrap(errs.ErrAlreadyExists, "violations_reservation_kind_uidx")
			}
		}
	}
	v.ID = t.state.nextID()
	v.Active = true
	t.state.violations[v.ID] = v
	return v, nil
}

func (t *memoryTx) DeactivateViolations(_ context.Context, patronID int64) (int, error) {
	n := 0
	for id, v := range t.state.violations {
		if v.PatronID == patronID && v.Active {
			v.Active = false
			t.state.violations[id] = v
			n++
		}
	}
	return n, nil
}
