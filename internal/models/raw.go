package models

// RawMovie is one movie record as returned by the catalog API: an
// optional-field key-value structure. Values keep their decoded JSON
// types (string, float64, bool, map, slice, nil); every downstream
// consumer is responsible for tolerating missing or mistyped values.
type RawMovie map[string]interface{}

// Has reports whether the record carries the given key, regardless of
// its value.
func (r RawMovie) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// RawFieldKeys is the field set the fetcher projects catalog responses
// onto. Keys outside this set (adult flags, external IDs, alternate
// titles, homepage URLs, status) never reach the canonical schema.
var RawFieldKeys = []string{
	"movie_id",
	"title",
	"tagline",
	"overview",
	"poster_path",
	"release_date",
	"runtime",
	"budget",
	"revenue",
	"popularity",
	"vote_average",
	"vote_count",
	"original_language",
	"belongs_to_collection",
	"genres",
	"production_companies",
	"production_countries",
	"spoken_languages",
	"credits",
}
