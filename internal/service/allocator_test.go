package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

func TestFindEquivalentFreeSeats(t *testing.T) {
    ctx := context.Background()
    svc, st, _ := newTestService()
    when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
    st.addShow(10, when, 1, 100)
    st.addShow(20, when, 1, 100) // same theater, different show
    st.addShow(30, when, 2, 200) // different theater

    st.addSeat(505, 10, 1200, held(1)) // reference seat, held
    st.addSeat(501, 10, 1200, nil)
    st.addSeat(509, 20, 1200, nil) // equivalent via shared theater
    st.addSeat(502, 10, 1800, nil) // wrong price
    st.addSeat(503, 30, 1200, nil) // wrong theater
    st.addSeat(504, 10, 1200, held(2))

    seats, err := svc.Allocator().FindEquivalentFreeSeats(ctx, 505)
    require.NoError(t, err)

    ids := make([]uint64, 0, len(seats))
    for _, s := range seats {
        ids = append(ids, s.ID)
    }
    // Free, same price, same theater, ascending; the held reference
    // seat and held peers are excluded.
    assert.Equal(t, []uint64{501, 509}, ids)
}

func TestFindEquivalentFreeSeats_MissingSource(t *testing.T) {
    svc, _, _ := newTestService()
    _, err := svc.Allocator().FindEquivalentFreeSeats(context.Background(), 404)
    var nf *repository.NotFoundError
    require.ErrorAs(t, err, &nf)
    assert.Equal(t, "show seat", nf.Entity)
}

func TestFindEquivalentFreeSeats_NoCandidates(t *testing.T) {
    svc, st, _ := newTestService()
    when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
    st.addShow(10, when, 1, 100)
    st.addSeat(505, 10, 1200, held(1))

    seats, err := svc.Allocator().FindEquivalentFreeSeats(context.Background(), 505)
    require.NoError(t, err)
    assert.Empty(t, seats)
}
