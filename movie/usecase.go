package movie

import (
	"context"
	"strings"
	"time"
)

type Service interface {
	Search(ctx context.Context, year, page int, genre string) ([]Record, error)
}

// Upstream is the external movie database.
type Upstream interface {
	FetchTitles(ctx context.Context, q Query) ([]Record, error)
}

type Usecase struct {
	u   Upstream
	now func() time.Time
}

func NewUsecase(u Upstream) *Usecase {
	return &Usecase{u: u, now: time.Now}
}

// WithClock replaces the clock used to default the year.
func (uc *Usecase) WithClock(now func() time.Time) *Usecase {
	uc.now = now
	return uc
}

// Search resolves the query and asks the upstream. A zero year means the
// current calendar year; page is floored at 1.
func (uc *Usecase) Search(ctx context.Context, year, page int, genre string) ([]Record, error) {
	if year < 0 {
		return nil, ErrInvalidQuery
	}
	if year == 0 {
		year = uc.now().Year()
	}
	if page < 1 {
		page = 1
	}

	records, err := uc.u.FetchTitles(ctx, Query{
		Year:  year,
		Page:  page,
		Genre: strings.TrimSpace(genre),
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
