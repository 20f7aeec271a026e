package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Movie Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Movie Platform API",
			"description": "Movie metadata platform serving a cleaned catalog dataset, KPI rankings, and descriptive analytics backed by PostgreSQL",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Movie Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/movies": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get movies",
					"description": "Retrieve movies from the cleaned catalog with filtering and pagination",
					"parameters": []map[string]interface{}{
						{
							"name":        "original_language",
							"in":          "query",
							"description": "Filter by original language code (e.g. en)",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "min_vote_count",
							"in":          "query",
							"description": "Filter by minimum vote count",
							"required":    false,
							"schema":      map[string]string{"type": "number"},
						},
						{
							"name":        "year_from",
							"in":          "query",
							"description": "Filter by earliest release year",
							"required":    false,
							"schema":      map[string]string{"type": "integer"},
						},
						{
							"name":        "year_to",
							"in":          "query",
							"description": "Filter by latest release year",
							"required":    false,
							"schema":      map[string]string{"type": "integer"},
						},
						{
							"name":        "page",
							"in":          "query",
							"description": "Page number (default: 1)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
						{
							"name":        "limit",
							"in":          "query",
							"description": "Records per page (default: 100)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 100},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"movie_id":          map[string]string{"type": "integer"},
														"title":             map[string]string{"type": "string"},
														"release_date":      map[string]interface{}{"type": "string", "format": "date", "nullable": true},
														"genres":            map[string]interface{}{"type": "string", "nullable": true},
														"collection":        map[string]interface{}{"type": "string", "nullable": true},
														"original_language": map[string]interface{}{"type": "string", "nullable": true},
														"budget_musd":       map[string]interface{}{"type": "number", "nullable": true},
														"revenue_musd":      map[string]interface{}{"type": "number", "nullable": true},
														"profit_musd":       map[string]interface{}{"type": "number", "nullable": true},
														"roi":               map[string]interface{}{"type": "number", "nullable": true},
														"vote_count":        map[string]interface{}{"type": "number", "nullable": true},
														"vote_average":      map[string]interface{}{"type": "number", "nullable": true},
														"popularity":        map[string]interface{}{"type": "number", "nullable": true},
														"cast":              map[string]string{"type": "string"},
														"cast_size":         map[string]string{"type": "integer"},
														"director":          map[string]interface{}{"type": "string", "nullable": true},
														"crew_size":         map[string]string{"type": "integer"},
													},
												},
											},
											"total":       map[string]string{"type": "integer"},
											"page":        map[string]string{"type": "integer"},
											"limit":       map[string]string{"type": "integer"},
											"total_pages": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/movies/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get a movie",
					"description": "Retrieve a single movie by its catalog identifier",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "integer"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
						},
						"404": map[string]interface{}{
							"description": "Movie not found",
						},
					},
				},
			},
			"/api/movies/kpis": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get KPI rankings",
					"description": "Retrieve the ten best/worst performer rankings computed by the pipeline",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "array",
										"items": map[string]interface{}{
											"type": "object",
											"properties": map[string]interface{}{
												"kpi":      map[string]string{"type": "string"},
												"movie":    map[string]interface{}{"type": "string", "nullable": true},
												"value":    map[string]interface{}{"type": "number", "nullable": true},
												"position": map[string]string{"type": "integer"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/movies/analytics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get analytics summary",
					"description": "Retrieve descriptive aggregates: franchise split, ROI by primary genre, releases per year",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"movies":      map[string]string{"type": "integer"},
											"franchise":   map[string]string{"type": "integer"},
											"standalone":  map[string]string{"type": "integer"},
											"genre_roi":   map[string]interface{}{"type": "array"},
											"year_counts": map[string]interface{}{"type": "array"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API is running",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
