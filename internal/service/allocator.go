package service

import (
    "context"
    "sort"

    "github.com/iliyamo/cinema-booking-engine/internal/model"
)

// SeatAllocator computes the candidate set for seat reassignment: the
// free seats equivalent to a reference seat, meaning identical price
// and same theater (theater resolved through the show's play row).
// The allocator never picks a seat itself; the interactive layer
// presents the ordered candidates and the user chooses.
type SeatAllocator struct {
    seats SeatStore
}

// NewSeatAllocator returns an allocator reading from the given store.
func NewSeatAllocator(seats SeatStore) *SeatAllocator {
    if seats == nil {
        panic("nil seat store passed to NewSeatAllocator")
    }
    return &SeatAllocator{seats: seats}
}

// FindEquivalentFreeSeats returns every currently free seat with the
// same price as the source seat whose show plays in the same theater,
// ordered ascending by seat id.  A missing source seat surfaces as a
// NotFoundError from the store.
func (a *SeatAllocator) FindEquivalentFreeSeats(ctx context.Context, seatID uint64) ([]model.ShowSeat, error) {
    src, err := a.seats.Get(ctx, seatID)
    if err != nil {
        return nil, err
    }
    theater, err := a.seats.TheaterOf(ctx, seatID)
    if err != nil {
        return nil, err
    }
    candidates, err := a.seats.FreeByPriceAndTheater(ctx, src.Price, theater)
    if err != nil {
        return nil, err
    }
    // The store orders by seat id already; sorting here keeps the
    // ordering guarantee with the component that promises it.
    sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
    return candidates, nil
}
