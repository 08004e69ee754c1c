package httpserver

// FetchMoviesRequest is the body of POST /api/fetch-movies.
// A null or zero year means "current year"; page 0 is read as 1.
type FetchMoviesRequest struct {
	Page  int    `json:"page" validate:"gte=0"`
	Year  *int   `json:"year" validate:"omitempty,min=0,max=9999"`
	Genre string `json:"genre" validate:"max=64,genre"`
}

func (r FetchMoviesRequest) YearOrZero() int {
	if r.Year == nil {
		return 0
	}
	return *r.Year
}
