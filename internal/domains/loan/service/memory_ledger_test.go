package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
)

// memoryLedger is a RepositoryInterface backed by maps. One mutex held for the
// whole of RunInTx stands in for the row locks, and a failed fn restores the
// snapshot taken at the start.
type memoryLedger struct {
	mu      sync.Mutex
	copies  map[uuid.UUID]int
	readers map[uuid.UUID]bool
	loans   map[uuid.UUID]model.Loan

	// failAdjust makes the next AdjustCopies fail once.
	failAdjust error
	// lastFilter records the filter passed to List.
	lastFilter model.LoanFilter
}

var _ repository.RepositoryInterface = (*memoryLedger)(nil)

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		copies:  make(map[uuid.UUID]int),
		readers: make(map[uuid.UUID]bool),
		loans:   make(map[uuid.UUID]model.Loan),
	}
}

func (m *memoryLedger) addBook(copies int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.copies[id] = copies
	return id
}

func (m *memoryLedger) addReader() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.readers[id] = true
	return id
}

func (m *memoryLedger) copiesOf(bookID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies[bookID]
}

func (m *memoryLedger) activeCount(readerID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.loans {
		if l.ReaderID == readerID && l.IsActive() {
			n++
		}
	}
	return n
}

func (m *memoryLedger) RunInTx(ctx context.Context, fn func(tx repository.TxRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copies := make(map[uuid.UUID]int, len(m.copies))
	for k, v := range m.copies {
		copies[k] = v
	}
	loans := make(map[uuid.UUID]model.Loan, len(m.loans))
	for k, v := range m.loans {
		loans[k] = v
	}

	if err := fn(&memoryTx{m: m}); err != nil {
		m.copies = copies
		m.loans = loans
		return err
	}
	return nil
}

func (m *memoryLedger) ReaderExists(_ context.Context, readerID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readers[readerID], nil
}

func (m *memoryLedger) ListActiveByReader(_ context.Context, readerID uuid.UUID) ([]model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Loan, 0)
	for _, l := range m.loans {
		if l.ReaderID == readerID && l.IsActive() {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoanDate.Before(out[j].LoanDate) })
	return out, nil
}

func (m *memoryLedger) List(_ context.Context, filter model.LoanFilter) ([]model.Loan, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	out := make([]model.Loan, 0)
	for _, l := range m.loans {
		if filter.ReaderID != nil && l.ReaderID != *filter.ReaderID {
			continue
		}
		if filter.BookID != nil && l.BookID != *filter.BookID {
			continue
		}
		if filter.Status == model.StatusActive && !l.IsActive() || filter.Status == model.StatusClosed && l.IsActive() {
			continue
		}
		out = append(out, l)
	}
	return out, len(out), nil
}

// memoryTx runs with memoryLedger.mu held.
type memoryTx struct {
	m *memoryLedger
}

func (t *memoryTx) LockBook(_ context.Context, bookID uuid.UUID) (int, error) {
	c, ok := t.m.copies[bookID]
	if !ok {
		return 0, model.NewBookNotFoundError(bookID)
	}
	return c, nil
}

func (t *memoryTx) LockReader(_ context.Context, readerID uuid.UUID) error {
	if !t.m.readers[readerID] {
		return model.NewReaderNotFoundError(readerID)
	}
	return nil
}

func (t *memoryTx) HasActiveLoan(_ context.Context, bookID, readerID uuid.UUID) (bool, error) {
	for _, l := range t.m.loans {
		if l.BookID == bookID && l.ReaderID == readerID && l.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) CountActiveByReader(_ context.Context, readerID uuid.UUID) (int, error) {
	n := 0
	for _, l := range t.m.loans {
		if l.ReaderID == readerID && l.IsActive() {
			n++
		}
	}
	return n, nil
}

func (t *memoryTx) Insert(_ context.Context, loan *model.Loan) error {
	loan.ID = uuid.New()
	loan.CreatedAt = loan.LoanDate
	loan.UpdatedAt = loan.LoanDate
	t.m.loans[loan.ID] = *loan
	return nil
}

func (t *memoryTx) AdjustCopies(_ context.Context, bookID uuid.UUID, delta int) error {
	if err := t.m.failAdjust; err != nil {
		t.m.failAdjust = nil
		return err
	}
	c, ok := t.m.copies[bookID]
	if !ok {
		return model.NewBookNotFoundError(bookID)
	}
	if c+delta < 0 {
		return model.ErrNoCopiesAvailable
	}
	t.m.copies[bookID] = c + delta
	return nil
}

func (t *memoryTx) FindActiveForUpdate(_ context.Context, bookID, readerID uuid.UUID) (*model.Loan, error) {
	var found *model.Loan
	for _, l := range t.m.loans {
		if l.BookID != bookID || l.ReaderID != readerID || !l.IsActive() {
			continue
		}
		if found == nil || l.LoanDate.Before(found.LoanDate) {
			cp := l
			found = &cp
		}
	}
	if found == nil {
		return nil, model.ErrNoActiveLoan
	}
	return found, nil
}

func (t *memoryTx) MarkReturned(_ context.Context, loanID uuid.UUID, returnDate time.Time) (*model.Loan, error) {
	l, ok := t.m.loans[loanID]
	if !ok || !l.IsActive() {
		return nil, model.ErrNoActiveLoan
	}
	if returnDate.Before(l.LoanDate) {
		return nil, errors.New("return_date before loan_date")
	}
	l.ReturnDate = &returnDate
	l.UpdatedAt = returnDate
	t.m.loans[loanID] = l
	return &l, nil
}
