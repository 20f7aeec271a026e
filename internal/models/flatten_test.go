package models

import "testing"

func TestFlattenEntityName(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  *string
	}{
		{
			name:  "nil value",
			value: nil,
			want:  nil,
		},
		{
			name:  "not an object",
			value: "Avengers Collection",
			want:  nil,
		},
		{
			name:  "object without name",
			value: map[string]interface{}{"id": float64(86311)},
			want:  nil,
		},
		{
			name:  "object with non-string name",
			value: map[string]interface{}{"name": float64(1)},
			want:  nil,
		},
		{
			name:  "object with name",
			value: map[string]interface{}{"id": float64(86311), "name": "The Avengers Collection"},
			want:  strPtr("The Avengers Collection"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenEntityName(tt.value)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("FlattenEntityName() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("FlattenEntityName() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestFlattenEntityList(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  *string
	}{
		{
			name:  "absent value flattens to null",
			value: nil,
			want:  nil,
		},
		{
			name:  "non-list value flattens to null",
			value: map[string]interface{}{"name": "Action"},
			want:  nil,
		},
		{
			name:  "empty list flattens to empty string",
			value: []interface{}{},
			want:  strPtr(""),
		},
		{
			name: "names joined in source order",
			value: []interface{}{
				map[string]interface{}{"id": float64(28), "name": "Action"},
				map[string]interface{}{"id": float64(12), "name": "Adventure"},
				map[string]interface{}{"id": float64(878), "name": "Science Fiction"},
			},
			want: strPtr("Action|Adventure|Science Fiction"),
		},
		{
			name: "non-objects and nameless entries skipped",
			value: []interface{}{
				"not an object",
				map[string]interface{}{"id": float64(28)},
				map[string]interface{}{"name": "Drama"},
				nil,
			},
			want: strPtr("Drama"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenEntityList(tt.value)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("FlattenEntityList() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("FlattenEntityList() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestExtractCredits(t *testing.T) {
	tests := []struct {
		name         string
		value        interface{}
		wantCast     string
		wantCastSize int
		wantDirector *string
		wantCrewSize int
	}{
		{
			name:         "absent credits",
			value:        nil,
			wantCast:     "",
			wantCastSize: 0,
			wantDirector: nil,
			wantCrewSize: 0,
		},
		{
			name:         "malformed credits treated as empty",
			value:        "not an object",
			wantCast:     "",
			wantCastSize: 0,
			wantDirector: nil,
			wantCrewSize: 0,
		},
		{
			name: "cast joined, director extracted",
			value: map[string]interface{}{
				"cast": []interface{}{
					map[string]interface{}{"name": "Robert Downey Jr."},
					map[string]interface{}{"name": "Chris Evans"},
				},
				"crew": []interface{}{
					map[string]interface{}{"name": "Trinh Tran", "job": "Producer"},
					map[string]interface{}{"name": "Anthony Russo", "job": "Director"},
					map[string]interface{}{"name": "Joe Russo", "job": "Director"},
				},
			},
			wantCast:     "Robert Downey Jr.|Chris Evans",
			wantCastSize: 2,
			wantDirector: strPtr("Anthony Russo"),
			wantCrewSize: 3,
		},
		{
			name: "sizes counted before name filtering",
			value: map[string]interface{}{
				"cast": []interface{}{
					map[string]interface{}{"name": "Sam Worthington"},
					map[string]interface{}{"id": float64(1)},
					"not an object",
				},
				"crew": []interface{}{
					map[string]interface{}{"job": "Director"},
					map[string]interface{}{"name": "James Cameron", "job": "Director"},
				},
			},
			wantCast:     "Sam Worthington",
			wantCastSize: 3,
			// The first Director entry wins even without a usable name.
			wantDirector: nil,
			wantCrewSize: 2,
		},
		{
			name: "no director in crew",
			value: map[string]interface{}{
				"cast": []interface{}{},
				"crew": []interface{}{
					map[string]interface{}{"name": "Someone", "job": "Editor"},
				},
			},
			wantCast:     "",
			wantCastSize: 0,
			wantDirector: nil,
			wantCrewSize: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCredits(tt.value)

			if got.Cast != tt.wantCast {
				t.Errorf("Cast = %q, want %q", got.Cast, tt.wantCast)
			}
			if got.CastSize != tt.wantCastSize {
				t.Errorf("CastSize = %d, want %d", got.CastSize, tt.wantCastSize)
			}
			if (got.Director == nil) != (tt.wantDirector == nil) {
				t.Fatalf("Director = %v, want %v", got.Director, tt.wantDirector)
			}
			if got.Director != nil && *got.Director != *tt.wantDirector {
				t.Errorf("Director = %q, want %q", *got.Director, *tt.wantDirector)
			}
			if got.CrewSize != tt.wantCrewSize {
				t.Errorf("CrewSize = %d, want %d", got.CrewSize, tt.wantCrewSize)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
