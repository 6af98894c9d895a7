package service

import (
	"context"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/types"
)

// TrailingDays is the fixed width of the trailing window.
const TrailingDays = 365

// ResolveWindow fills in missing bounds from the store:
//
//	start, end given: returned as-is, even when start > end
//	start only:       end = latest date in the store
//	end only:         start = earliest date in the store
//	neither:          TrailingWindow
func ResolveWindow(ctx context.Context, start, end *time.Time, bounds DateBounds) (types.DateRange, error) {
	switch {
	case start != nil && end != nil:
		return types.DateRange{Start: *start, End: *end}, nil
	case start != nil:
		maxDate, err := lookup(ctx, "max date", bounds.MaxDate)
		if err != nil {
			return types.DateRange{}, err
		}
		return types.DateRange{Start: *start, End: maxDate}, nil
	case end != nil:
		minDate, err := lookup(ctx, "min date", bounds.MinDate)
		if err != nil {
			return types.DateRange{}, err
		}
		return types.DateRange{Start: minDate, End: *end}, nil
	default:
		return TrailingWindow(ctx, bounds)
	}
}

// TrailingWindow is the 365-day range ending at the store's latest date. The
// width is a fixed day count, so leap years are not special-cased.
func TrailingWindow(ctx context.Context, bounds DateBounds) (types.DateRange, error) {
	end, err := lookup(ctx, "max date", bounds.MaxDate)
	if err != nil {
		return types.DateRange{}, err
	}
	return trailingFrom(end), nil
}

func trailingFrom(end time.Time) types.DateRange {
	return types.DateRange{Start: end.AddDate(0, 0, -TrailingDays), End: end}
}

// FullWindow spans the earliest to the latest date in the store.
func FullWindow(ctx context.Context, bounds DateBounds) (types.DateRange, error) {
	start, err := lookup(ctx, "min date", bounds.MinDate)
	if err != nil {
		return types.DateRange{}, err
	}
	end, err := lookup(ctx, "max date", bounds.MaxDate)
	if err != nil {
		return types.DateRange{}, err
	}
	return types.DateRange{Start: start, End: end}, nil
}

func lookup(ctx context.Context, what string, fn func(context.Context) (time.Time, bool, error)) (time.Time, error) {
	t, ok, err := fn(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("lookup %s: %w", what, err)
	}
	if !ok {
		return time.Time{}, ErrNoData
	}
	return t, nil
}
