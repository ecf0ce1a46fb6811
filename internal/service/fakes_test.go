package service

import (
    "context"
    "fmt"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

// memState is the shared in-memory backing for the store fakes.  A
// memTx journals undo closures so Rollback restores the exact prior
// state, which matches what the engine relies on from MySQL: a failed
// conditional claim inside a transaction must not leave the released
// source seat free.
type memState struct {
    mu       sync.Mutex
    bookings map[uint64]*model.Booking
    seats    map[uint64]*model.ShowSeat
    theaters map[uint64]uint64 // seat id -> theater id
    payments map[uint64]*model.Payment
    shows    map[uint64]memShow
    plays    map[uint64]uint64 // show id -> theater id
    users    map[string]bool
}

type memShow struct {
    date     string // YYYY-MM-DD
    cinemaID uint64
}

func newMemState() *memState {
    return &memState{
        bookings: map[uint64]*model.Booking{},
        seats:    map[uint64]*model.ShowSeat{},
        theaters: map[uint64]uint64{},
        payments: map[uint64]*model.Payment{},
        shows:    map[uint64]memShow{},
        plays:    map[uint64]uint64{},
        users:    map[string]bool{},
    }
}

func (st *memState) addUser(email string) { st.users[email] = true }

func (st *memState) addShow(id uint64, date time.Time, cinemaID, theaterID uint64) {
    st.shows[id] = memShow{date: date.Format("2006-01-02"), cinemaID: cinemaID}
    st.plays[id] = theaterID
}

func (st *memState) addBooking(b model.Booking) { st.bookings[b.ID] = &b }

func (st *memState) addSeat(id, showID uint64, price uint32, heldBy *uint64) {
    var bid *uint64
    if heldBy != nil {
        v := *heldBy
        bid = &v
    }
    st.seats[id] = &model.ShowSeat{ID: id, ShowID: showID, SeatID: id, BookingID: bid, Price: price}
    st.theaters[id] = st.plays[showID]
}

func (st *memState) addPayment(p model.Payment) { st.payments[p.ID] = &p }

func held(bookingID uint64) *uint64 { return &bookingID }

// Begin satisfies repository.Manager.
func (st *memState) Begin(ctx context.Context) (repository.Tx, error) {
    return &memTx{st: st}, nil
}

// memTx is used by one goroutine at a time, like *sql.Tx.
type memTx struct {
    st   *memState
    undo []func()
    done bool
}

func (t *memTx) Commit() error {
    t.done = true
    t.undo = nil
    return nil
}

func (t *memTx) Rollback() error {
    if t.done {
        return nil
    }
    t.st.mu.Lock()
    defer t.st.mu.Unlock()
    for i := len(t.undo) - 1; i >= 0; i-- {
        t.undo[i]()
    }
    t.done = true
    return nil
}

// note records an undo step; callers hold the state lock already.
func (t *memTx) note(fn func()) {
    t.undo = append(t.undo, fn)
}

func asMemTx(tx repository.Tx) *memTx {
    mt, ok := tx.(*memTx)
    if !ok {
        panic(fmt.Sprintf("unexpected tx type %T", tx))
    }
    return mt
}

func copyBooking(b *model.Booking) *model.Booking { c := *b; return &c }

func copySeat(s *model.ShowSeat) *model.ShowSeat {
    c := *s
    if s.BookingID != nil {
        v := *s.BookingID
        c.BookingID = &v
    }
    return &c
}

// --- BookingStore fake ---

type memBookings struct{ st *memState }

func (m *memBookings) Exists(ctx context.Context, bookingID uint64) (bool, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    _, ok := m.st.bookings[bookingID]
    return ok, nil
}

func (m *memBookings) Insert(ctx context.Context, b *model.Booking) error {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    if _, ok := m.st.bookings[b.ID]; ok {
        return &repository.DuplicateKeyError{Field: "bid", Value: fmt.Sprintf("%d", b.ID)}
    }
    m.st.bookings[b.ID] = copyBooking(b)
    return nil
}

func (m *memBookings) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    b, ok := m.st.bookings[bookingID]
    if !ok {
        return nil, &repository.NotFoundError{Entity: "booking", Field: "bid", Value: fmt.Sprintf("%d", bookingID)}
    }
    return copyBooking(b), nil
}

func (m *memBookings) CancelPending(ctx context.Context) (int64, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var n int64
    for _, b := range m.st.bookings {
        if b.Status == model.StatusPending {
            b.Status = model.StatusCancelled
            n++
        }
    }
    return n, nil
}

func (m *memBookings) CancelTx(ctx context.Context, tx repository.Tx, bookingID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    b, ok := m.st.bookings[bookingID]
    if !ok {
        return &repository.NotFoundError{Entity: "booking", Field: "bid", Value: fmt.Sprintf("%d", bookingID)}
    }
    old := b.Status
    mt.note(func() { b.Status = old })
    b.Status = model.StatusCancelled
    return nil
}

func (m *memBookings) CancelByShowTx(ctx context.Context, tx repository.Tx, showID uint64) (int64, error) {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var n int64
    for _, b := range m.st.bookings {
        if b.ShowID == showID && b.Status != model.StatusCancelled {
            b := b
            old := b.Status
            mt.note(func() { b.Status = old })
            b.Status = model.StatusCancelled
            n++
        }
    }
    return n, nil
}

func (m *memBookings) CancelledIDsTx(ctx context.Context, tx repository.Tx) ([]uint64, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var ids []uint64
    for id, b := range m.st.bookings {
        if b.Status == model.StatusCancelled {
            ids = append(ids, id)
        }
    }
    sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    return ids, nil
}

func (m *memBookings) DeleteTx(ctx context.Context, tx repository.Tx, bookingID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    b, ok := m.st.bookings[bookingID]
    if !ok {
        return &repository.NotFoundError{Entity: "booking", Field: "bid", Value: fmt.Sprintf("%d", bookingID)}
    }
    // Mirror the restricting foreign key from payments.bid: MySQL
    // refuses to delete a booking row a payment still references.
    for pid, p := range m.st.payments {
        if p.BookingID == bookingID {
            return &repository.TransientError{
                Op:  "delete booking",
                Err: fmt.Errorf("payment %d still references booking %d", pid, bookingID),
            }
        }
    }
    mt.note(func() { m.st.bookings[bookingID] = b })
    delete(m.st.bookings, bookingID)
    return nil
}

// --- SeatStore fake ---

type memSeats struct{ st *memState }

func (m *memSeats) get(seatID uint64) (*model.ShowSeat, error) {
    s, ok := m.st.seats[seatID]
    if !ok {
        return nil, &repository.NotFoundError{Entity: "show seat", Field: "ssid", Value: fmt.Sprintf("%d", seatID)}
    }
    return s, nil
}

func (m *memSeats) Get(ctx context.Context, seatID uint64) (*model.ShowSeat, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    s, err := m.get(seatID)
    if err != nil {
        return nil, err
    }
    return copySeat(s), nil
}

func (m *memSeats) GetTx(ctx context.Context, tx repository.Tx, seatID uint64) (*model.ShowSeat, error) {
    return m.Get(ctx, seatID)
}

func (m *memSeats) TheaterOf(ctx context.Context, seatID uint64) (uint64, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    tid, ok := m.st.theaters[seatID]
    if !ok {
        return 0, &repository.NotFoundError{Entity: "show seat", Field: "ssid", Value: fmt.Sprintf("%d", seatID)}
    }
    return tid, nil
}

func (m *memSeats) TheaterOfTx(ctx context.Context, tx repository.Tx, seatID uint64) (uint64, error) {
    return m.TheaterOf(ctx, seatID)
}

func (m *memSeats) FreeByPriceAndTheater(ctx context.Context, price uint32, theaterID uint64) ([]model.ShowSeat, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var out []model.ShowSeat
    for id, s := range m.st.seats {
        if s.Free() && s.Price == price && m.st.theaters[id] == theaterID {
            out = append(out, *copySeat(s))
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (m *memSeats) ClaimIfFree(ctx context.Context, seatID, bookingID uint64) (bool, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    s, ok := m.st.seats[seatID]
    if !ok || !s.Free() {
        return false, nil
    }
    v := bookingID
    s.BookingID = &v
    return true, nil
}

func (m *memSeats) ClaimIfFreeTx(ctx context.Context, tx repository.Tx, seatID, bookingID uint64) (bool, error) {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    s, ok := m.st.seats[seatID]
    if !ok || !s.Free() {
        return false, nil
    }
    mt.note(func() { s.BookingID = nil })
    v := bookingID
    s.BookingID = &v
    return true, nil
}

func (m *memSeats) ReleaseTx(ctx context.Context, tx repository.Tx, seatID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    s, ok := m.st.seats[seatID]
    if !ok || s.BookingID == nil {
        return nil
    }
    old := s.BookingID
    mt.note(func() { s.BookingID = old })
    s.BookingID = nil
    return nil
}

func (m *memSeats) ReleaseByBookingTx(ctx context.Context, tx repository.Tx, bookingID uint64) (int64, error) {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var n int64
    for _, s := range m.st.seats {
        if s.BookingID != nil && *s.BookingID == bookingID {
            s := s
            old := s.BookingID
            mt.note(func() { s.BookingID = old })
            s.BookingID = nil
            n++
        }
    }
    return n, nil
}

func (m *memSeats) ReleaseByShowTx(ctx context.Context, tx repository.Tx, showID uint64) (int64, error) {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    var n int64
    for _, s := range m.st.seats {
        if s.ShowID == showID && s.BookingID != nil {
            s := s
            old := s.BookingID
            mt.note(func() { s.BookingID = old })
            s.BookingID = nil
            n++
        }
    }
    return n, nil
}

// --- PaymentStore fake ---

type memPayments struct{ st *memState }

func (m *memPayments) BookingIDTx(ctx context.Context, tx repository.Tx, paymentID uint64) (uint64, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    p, ok := m.st.payments[paymentID]
    if !ok {
        return 0, &repository.NotFoundError{Entity: "payment", Field: "pid", Value: fmt.Sprintf("%d", paymentID)}
    }
    return p.BookingID, nil
}

func (m *memPayments) DeleteTx(ctx context.Context, tx repository.Tx, paymentID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    p, ok := m.st.payments[paymentID]
    if !ok {
        return &repository.NotFoundError{Entity: "payment", Field: "pid", Value: fmt.Sprintf("%d", paymentID)}
    }
    mt.note(func() { m.st.payments[paymentID] = p })
    delete(m.st.payments, paymentID)
    return nil
}

func (m *memPayments) DeleteByBookingTx(ctx context.Context, tx repository.Tx, bookingID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    for pid, p := range m.st.payments {
        if p.BookingID == bookingID {
            pid, p := pid, p
            mt.note(func() { m.st.payments[pid] = p })
            delete(m.st.payments, pid)
        }
    }
    return nil
}

// --- ShowStore fake ---

type memShows struct{ st *memState }

func (m *memShows) Exists(ctx context.Context, showID uint64) (bool, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    _, ok := m.st.shows[showID]
    return ok, nil
}

func (m *memShows) IDsOnDateTx(ctx context.Context, tx repository.Tx, date time.Time, cinemaID uint64) ([]uint64, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    day := date.Format("2006-01-02")
    var ids []uint64
    for id, sh := range m.st.shows {
        if sh.date == day && sh.cinemaID == cinemaID {
            ids = append(ids, id)
        }
    }
    sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    return ids, nil
}

func (m *memShows) DeletePlaysTx(ctx context.Context, tx repository.Tx, showID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    if tid, ok := m.st.plays[showID]; ok {
        mt.note(func() { m.st.plays[showID] = tid })
        delete(m.st.plays, showID)
    }
    return nil
}

func (m *memShows) DeleteTx(ctx context.Context, tx repository.Tx, showID uint64) error {
    mt := asMemTx(tx)
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    sh, ok := m.st.shows[showID]
    if !ok {
        return &repository.NotFoundError{Entity: "show", Field: "sid", Value: fmt.Sprintf("%d", showID)}
    }
    mt.note(func() { m.st.shows[showID] = sh })
    delete(m.st.shows, showID)
    return nil
}

// --- UserStore fake ---

type memUsers struct{ st *memState }

func (m *memUsers) Exists(ctx context.Context, email string) (bool, error) {
    m.st.mu.Lock()
    defer m.st.mu.Unlock()
    return m.st.users[email], nil
}

// --- EventPublisher fake ---

type showsRemovedCall struct {
    cinemaID uint64
    date     time.Time
    shows    int64
    bookings int64
}

type captureEvents struct {
    mu           sync.Mutex
    cancelled    []int64
    payments     [][2]uint64 // paymentID, bookingID
    showsRemoved []showsRemovedCall
}

func (e *captureEvents) BookingsCancelled(ctx context.Context, count int64) {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.cancelled = append(e.cancelled, count)
}

func (e *captureEvents) PaymentRemoved(ctx context.Context, paymentID, bookingID uint64) {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.payments = append(e.payments, [2]uint64{paymentID, bookingID})
}

func (e *captureEvents) ShowsRemoved(ctx context.Context, cinemaID uint64, date time.Time, shows, bookings int64) {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.showsRemoved = append(e.showsRemoved, showsRemovedCall{cinemaID: cinemaID, date: date, shows: shows, bookings: bookings})
}

// newTestService wires a BookingService over a fresh in-memory state.
func newTestService() (*BookingService, *memState, *captureEvents) {
    st := newMemState()
    events := &captureEvents{}
    svc := NewBookingService(
        st,
        &memBookings{st: st},
        &memSeats{st: st},
        &memPayments{st: st},
        &memShows{st: st},
        &memUsers{st: st},
        events,
    )
    return svc, st, events
}
