package models

import (
	"fmt"
	"time"
)

// Movie is the canonical, schema-fixed tabular representation of one
// movie. Nullable fields are pointers; cast, cast_size and crew_size
// are never null even when the source credits were empty or malformed.
type Movie struct {
	MovieID             int64      `json:"movie_id" db:"movie_id"`
	Title               string     `json:"title" db:"title"`
	Tagline             *string    `json:"tagline,omitempty" db:"tagline"`
	ReleaseDate         *time.Time `json:"release_date,omitempty" db:"release_date"`
	Genres              *string    `json:"genres,omitempty" db:"genres"`
	Collection          *string    `json:"collection,omitempty" db:"collection"`
	OriginalLanguage    *string    `json:"original_language,omitempty" db:"original_language"`
	BudgetFormatted     *string    `json:"budget_formatted,omitempty" db:"budget_formatted"`
	RevenueFormatted    *string    `json:"revenue_formatted,omitempty" db:"revenue_formatted"`
	BudgetMUSD          *float64   `json:"budget_musd,omitempty" db:"budget_musd"`
	RevenueMUSD         *float64   `json:"revenue_musd,omitempty" db:"revenue_musd"`
	ProfitMUSD          *float64   `json:"profit_musd,omitempty" db:"profit_musd"`
	ROI                 *float64   `json:"roi,omitempty" db:"roi"`
	ProductionCompanies *string    `json:"production_companies,omitempty" db:"production_companies"`
	ProductionCountries *string    `json:"production_countries,omitempty" db:"production_countries"`
	VoteCount           *float64   `json:"vote_count,omitempty" db:"vote_count"`
	VoteAverage         *float64   `json:"vote_average,omitempty" db:"vote_average"`
	Popularity          *float64   `json:"popularity,omitempty" db:"popularity"`
	Runtime             *float64   `json:"runtime,omitempty" db:"runtime"`
	Overview            *string    `json:"overview,omitempty" db:"overview"`
	SpokenLanguages     *string    `json:"spoken_languages,omitempty" db:"spoken_languages"`
	PosterPath          *string    `json:"poster_path,omitempty" db:"poster_path"`
	Cast                string     `json:"cast" db:"cast_names"`
	CastSize            int        `json:"cast_size" db:"cast_size"`
	Director            *string    `json:"director,omitempty" db:"director"`
	CrewSize            int        `json:"crew_size" db:"crew_size"`
}

// CanonicalColumns is the guaranteed output column order.
var CanonicalColumns = []string{
	"movie_id",
	"title",
	"tagline",
	"release_date",
	"genres",
	"collection",
	"original_language",
	"budget_formatted",
	"revenue_formatted",
	"budget_musd",
	"revenue_musd",
	"profit_musd",
	"roi",
	"production_companies",
	"production_countries",
	"vote_count",
	"vote_average",
	"popularity",
	"runtime",
	"overview",
	"spoken_languages",
	"poster_path",
	"cast",
	"cast_size",
	"director",
	"crew_size",
}

// ReleaseDateLayout is the wire format for release dates.
const ReleaseDateLayout = "2006-01-02"

// FormatMUSD renders a million-USD amount as a presentation string
// ("$42.5M").
func FormatMUSD(value float64) string {
	return fmt.Sprintf("$%.1fM", value)
}

// NonNullFieldCount reports how many canonical fields of the row are
// non-null. movie_id, title, cast, cast_size and crew_size can never
// be null and always count.
func (m *Movie) NonNullFieldCount() int {
	count := 5 // movie_id, title, cast, cast_size, crew_size

	pointers := []bool{
		m.Tagline != nil,
		m.ReleaseDate != nil,
		m.Genres != nil,
		m.Collection != nil,
		m.OriginalLanguage != nil,
		m.BudgetFormatted != nil,
		m.RevenueFormatted != nil,
		m.BudgetMUSD != nil,
		m.RevenueMUSD != nil,
		m.ProfitMUSD != nil,
		m.ROI != nil,
		m.ProductionCompanies != nil,
		m.ProductionCountries != nil,
		m.VoteCount != nil,
		m.VoteAverage != nil,
		m.Popularity != nil,
		m.Runtime != nil,
		m.Overview != nil,
		m.SpokenLanguages != nil,
		m.PosterPath != nil,
		m.Director != nil,
	}
	for _, set := range pointers {
		if set {
			count++
		}
	}
	return count
}

// NumericField returns the value of a numeric canonical column by
// name. The second return value is false when the column is not a
// numeric one; a nil first value means the field is null for this row.
func (m *Movie) NumericField(name string) (*float64, bool) {
	switch name {
	case "movie_id":
		v := float64(m.MovieID)
		return &v, true
	case "budget_musd":
		return m.BudgetMUSD, true
	case "revenue_musd":
		return m.RevenueMUSD, true
	case "profit_musd":
		return m.ProfitMUSD, true
	case "roi":
		return m.ROI, true
	case "vote_count":
		return m.VoteCount, true
	case "vote_average":
		return m.VoteAverage, true
	case "popularity":
		return m.Popularity, true
	case "runtime":
		return m.Runtime, true
	case "cast_size":
		v := float64(m.CastSize)
		return &v, true
	case "crew_size":
		v := float64(m.CrewSize)
		return &v, true
	}
	return nil, false
}

// Dataset is the canonical movie table handed between pipeline stages.
// Columns is the ordered subset of CanonicalColumns whose source data
// was present in the batch; it decides what gets persisted and which
// KPIs are computable.
type Dataset struct {
	Columns []string
	Movies  []Movie
}

// HasColumn reports whether the dataset carries the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}
