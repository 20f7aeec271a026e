package models

import "strings"

// NameDelimiter joins flattened entity names ("Action|Adventure").
const NameDelimiter = "|"

// directorJob is matched case-sensitively against crew job titles.
const directorJob = "Director"

// FlattenEntityName reduces a single named-entity object to its name.
// Returns nil when the value is not an object or carries no usable
// name.
func FlattenEntityName(value interface{}) *string {
	entity, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	name, ok := entity["name"].(string)
	if !ok {
		return nil
	}
	return &name
}

// FlattenEntityList reduces an ordered list of named-entity objects to
// a pipe-delimited string of their names, preserving source order.
// Entries that are not objects or lack a usable name are skipped.
// Absent or non-list input flattens to nil; a present but empty list
// flattens to "".
func FlattenEntityList(value interface{}) *string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		entity, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := entity["name"].(string); ok {
			names = append(names, name)
		}
	}

	joined := strings.Join(names, NameDelimiter)
	return &joined
}

// CreditsSummary is the flat projection of a raw credits blob.
type CreditsSummary struct {
	Cast     string
	CastSize int
	Director *string
	CrewSize int
}

// ExtractCredits extracts cast, director and crew stats from a raw
// credits value. Any malformed shape (credits not an object, cast or
// crew not a list) is treated as an empty list rather than an error.
// Sizes are raw list lengths, counted before name filtering.
func ExtractCredits(value interface{}) CreditsSummary {
	credits, _ := value.(map[string]interface{})

	cast, _ := credits["cast"].([]interface{})
	crew, _ := credits["crew"].([]interface{})

	names := make([]string, 0, len(cast))
	for _, member := range cast {
		person, ok := member.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := person["name"].(string); ok {
			names = append(names, name)
		}
	}

	// First matching crew entry wins, even if it lacks a usable name.
	var director *string
	for _, member := range crew {
		person, ok := member.(map[string]interface{})
		if !ok {
			continue
		}
		if job, ok := person["job"].(string); !ok || job != directorJob {
			continue
		}
		if name, ok := person["name"].(string); ok {
			director = &name
		}
		break
	}

	return CreditsSummary{
		Cast:     strings.Join(names, NameDelimiter),
		CastSize: len(cast),
		Director: director,
		CrewSize: len(crew),
	}
}
