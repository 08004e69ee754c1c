// Package browse holds the movie list page state: filters, pagination and
// the lifecycle of the fetch that the current filters imply.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"moviehub/movie"
)

// FetchFailedMessage is shown when the proxy could not be reached at all.
const FetchFailedMessage = "Failed to fetch movies. Please check your API."

type Fetcher interface {
	FetchMovies(ctx context.Context, r Request) ([]movie.Record, error)
}

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Query is the user-controlled filter state. Year 0 means no year.
type Query struct {
	Page  int
	Year  int
	Genre string
}

// Request translates the query to its wire form.
func (q Query) Request() Request {
	r := Request{Page: q.Page, Genre: q.Genre}
	if q.Genre == movie.GenreAll {
		r.Genre = ""
	}
	if q.Year != 0 {
		year := q.Year
		r.Year = &year
	}
	return r
}

// Lifecycle is the state of the latest fetch. Results is set only on
// Success and Err only on Failed.
type Lifecycle struct {
	Status  Status
	Results []movie.Record
	Err     string
}

type Snapshot struct {
	Query     Query
	Lifecycle Lifecycle
	HasMore   bool
	Seq       uint64
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithNotify registers fn to receive a snapshot after every transition.
// fn is called without the controller lock held.
func WithNotify(fn func(Snapshot)) Option {
	return func(c *Controller) { c.notify = fn }
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

type Controller struct {
	fetcher Fetcher
	logger  *slog.Logger
	notify  func(Snapshot)
	ctx     context.Context

	mu        sync.Mutex
	query     Query
	lifecycle Lifecycle
	hasMore   bool
	seq       uint64

	wg sync.WaitGroup
}

func New(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  slog.Default(),
		ctx:     context.Background(),
		query:   Query{Page: 1, Genre: movie.GenreAll},
		hasMore: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start issues the initial fetch for the default query.
func (c *Controller) Start() {
	c.update(func(*Query) {}, true)
}

// Next moves to the following page. It is unconditional; callers consult
// HasMore to decide whether to offer it.
func (c *Controller) Next() {
	c.update(func(q *Query) { q.Page++ }, false)
}

// Previous moves back one page, stopping at page 1.
func (c *Controller) Previous() {
	c.update(func(q *Query) {
		if q.Page > 1 {
			q.Page--
		}
	}, false)
}

func (c *Controller) SetGenre(genre string) {
	c.update(func(q *Query) { q.Genre = genre }, false)
}

// SetYear filters by year; 0 clears the filter.
func (c *Controller) SetYear(year int) {
	c.update(func(q *Query) { q.Year = year }, false)
}

// update applies fn to the current query and, when the result differs or
// force is set, stores it, moves to Loading and starts its fetch. The read
// and the store happen under one lock.
func (c *Controller) update(fn func(*Query), force bool) {
	c.mu.Lock()
	q := c.query
	fn(&q)
	if q.Page < 1 {
		q.Page = 1
	}
	if !force && q == c.query {
		c.mu.Unlock()
		return
	}
	c.query = q
	c.seq++
	seq := c.seq
	c.lifecycle = Lifecycle{Status: Loading}
	snap := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.emit(snap)
	go c.fetch(seq, q)
}

func (c *Controller) fetch(seq uint64, q Query) {
	defer c.wg.Done()

	records, err := c.fetcher.FetchMovies(c.ctx, q.Request())

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug("discarding stale movie response", "seq", seq, "latest", latest)
		return
	}

	if err != nil {
		c.lifecycle = Lifecycle{Status: Failed, Err: errorMessage(err)}
		c.logger.Warn("fetch movies failed", "error", err, "page", q.Page, "year", q.Year, "genre", q.Genre)
	} else {
		if records == nil {
			records = []movie.Record{}
		}
		c.lifecycle = Lifecycle{Status: Success, Results: records}
		c.hasMore = len(records) >= movie.PageSize
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func errorMessage(err error) string {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Error()
	}
	return FetchFailedMessage
}

func (c *Controller) emit(s Snapshot) {
	if c.notify != nil {
		c.notify(s)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Query:     c.query,
		Lifecycle: c.lifecycle,
		HasMore:   c.hasMore,
		Seq:       c.seq,
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// HasMore is false once a page came back shorter than movie.PageSize.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Visible is the render set: decodable summaries of the current results.
func (c *Controller) Visible() []movie.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lifecycle.Status != Success {
		return nil
	}
	return movie.Visible(c.lifecycle.Results)
}

// Wait blocks until every issued fetch has resolved.
func (c *Controller) Wait() {
	c.wg.Wait()
}
