package movie

import (
	"encoding/json"
	"fmt"

	"moviehub/errs"
)

const (
	// PageSize is the number of titles requested per upstream page.
	PageSize = 12

	SortYearDesc = "year.decr"

	// GenreAll is the UI sentinel for "no genre filter".
	GenreAll = "All"

	// PlaceholderPoster is rendered when a title has no primary image.
	PlaceholderPoster = "/placeholder.jpg"
)

var (
	Genres = []string{GenreAll, "Animation", "Comedy", "Fantasy"}
	Years  = []int{2024, 2023, 2022, 2021, 2020, 2019}
)

var (
	ErrAPINotConfigured = errs.Errorf(errs.EINTERNAL, "movie api key is not configured")
	ErrInvalidQuery     = errs.Errorf(errs.EINVALID, "invalid search query")
)

// UpstreamError reports a non-2xx answer from the movie database.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d %s", e.StatusCode, e.Status)
}

// Query is a resolved search: Year is always set, Page is at least 1.
type Query struct {
	Year  int
	Page  int
	Genre string
}

// Record is one upstream title, kept as the raw JSON the upstream sent.
// The proxy relays it unchanged; Decode turns it into a Summary.
type Record json.RawMessage

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// Summary is the render-ready form of a Record. All fields are present.
type Summary struct {
	Title       string `json:"title"`
	PosterURL   string `json:"posterUrl"`
	ReleaseYear int    `json:"releaseYear"`
}

// upstreamTitle holds the fields Decode reads. Each is kept raw so a bad
// shape in one field only affects that field.
type upstreamTitle struct {
	PrimaryImage json.RawMessage `json:"primaryImage"`
	TitleText    json.RawMessage `json:"titleText"`
	ReleaseYear  json.RawMessage `json:"releaseYear"`
}

// Decode validates the record. ok is false when the record is not a JSON
// object or its title or release year is missing or malformed. Anything
// else wrong with the record, including the image, is tolerated.
func (r Record) Decode() (Summary, bool) {
	var t upstreamTitle
	if err := json.Unmarshal(r, &t); err != nil {
		return Summary{}, false
	}

	var title struct {
		Text string `json:"text"`
	}
	if json.Unmarshal(t.TitleText, &title) != nil || title.Text == "" {
		return Summary{}, false
	}

	var release struct {
		Year int `json:"year"`
	}
	if json.Unmarshal(t.ReleaseYear, &release) != nil || release.Year == 0 {
		return Summary{}, false
	}

	poster := PlaceholderPoster
	var image struct {
		URL string `json:"url"`
	}
	if json.Unmarshal(t.PrimaryImage, &image) == nil && image.URL != "" {
		poster = image.URL
	}

	return Summary{
		Title:       title.Text,
		PosterURL:   poster,
		ReleaseYear: release.Year,
	}, true
}

// Visible returns the summaries of all records that decode, in order.
func Visible(records []Record) []Summary {
	summaries := make([]Summary, 0, len(records))
	for _, r := range records {
		if s, ok := r.Decode(); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries
}
