package models

import (
	"testing"
	"time"
)

func TestFormatMUSD(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 25, want: "$25.0M"},
		{value: 356.0, want: "$356.0M"},
		{value: 0.5, want: "$0.5M"},
		{value: 12.34, want: "$12.3M"},
		{value: -10, want: "$-10.0M"},
	}

	for _, tt := range tests {
		if got := FormatMUSD(tt.value); got != tt.want {
			t.Errorf("FormatMUSD(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestMovie_NonNullFieldCount(t *testing.T) {
	// A bare row still counts movie_id, title, cast, cast_size and
	// crew_size.
	bare := Movie{MovieID: 1, Title: "Bare"}
	if got := bare.NonNullFieldCount(); got != 5 {
		t.Errorf("NonNullFieldCount() = %d, want 5", got)
	}

	date := time.Date(2019, 4, 24, 0, 0, 0, 0, time.UTC)
	budget := 356.0
	genres := "Action|Adventure"

	partial := Movie{
		MovieID:     299534,
		Title:       "Avengers: Endgame",
		ReleaseDate: &date,
		BudgetMUSD:  &budget,
		Genres:      &genres,
	}
	if got := partial.NonNullFieldCount(); got != 8 {
		t.Errorf("NonNullFieldCount() = %d, want 8", got)
	}
}

func TestMovie_NumericField(t *testing.T) {
	budget := 160.0
	movie := Movie{MovieID: 27205, BudgetMUSD: &budget, CastSize: 24, CrewSize: 91}

	if v, ok := movie.NumericField("movie_id"); !ok || v == nil || *v != 27205 {
		t.Errorf("NumericField(movie_id) = %v, %v", v, ok)
	}
	if v, ok := movie.NumericField("budget_musd"); !ok || v == nil || *v != 160.0 {
		t.Errorf("NumericField(budget_musd) = %v, %v", v, ok)
	}
	if v, ok := movie.NumericField("cast_size"); !ok || v == nil || *v != 24 {
		t.Errorf("NumericField(cast_size) = %v, %v", v, ok)
	}

	// Null numeric column: present but nil.
	if v, ok := movie.NumericField("roi"); !ok || v != nil {
		t.Errorf("NumericField(roi) = %v, %v, want nil, true", v, ok)
	}

	// Non-numeric column.
	if _, ok := movie.NumericField("title"); ok {
		t.Error("NumericField(title) should report false")
	}
}

func TestDataset_HasColumn(t *testing.T) {
	ds := Dataset{Columns: []string{"movie_id", "title", "vote_count"}}

	if !ds.HasColumn("vote_count") {
		t.Error("HasColumn(vote_count) = false, want true")
	}
	if ds.HasColumn("roi") {
		t.Error("HasColumn(roi) = true, want false")
	}
}
