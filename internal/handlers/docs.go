package handlers

import (
	"encoding/json"
	"net/http"
)

type param struct {
	name, in, description, typ string
	required                   bool
}

func pathParam(name, description string) param {
	return param{name: name, in: "path", description: description, typ: "string", required: true}
}

func queryParam(name, description, typ string) param {
	return param{name: name, in: "query", description: description, typ: typ}
}

// operation builds one OpenAPI operation object. responses maps a status code
// to its description; every response is JSON.
func operation(summary, description string, params []param, responses map[string]string) map[string]interface{} {
	op := map[string]interface{}{
		"summary":     summary,
		"description": description,
	}

	if len(params) > 0 {
		list := make([]map[string]interface{}, 0, len(params))
		for _, p := range params {
			list = append(list, map[string]interface{}{
				"name":        p.name,
				"in":          p.in,
				"description": p.description,
				"required":    p.required,
				"schema":      map[string]string{"type": p.typ},
			})
		}
		op["parameters"] = list
	}

	resp := make(map[string]interface{}, len(responses))
	for code, desc := range responses {
		resp[code] = map[string]interface{}{
			"description": desc,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]string{"type": "object"},
				},
			},
		}
	}
	op["responses"] = resp
	return op
}

func jsonBody(op map[string]interface{}, properties map[string]interface{}) map[string]interface{} {
	op["requestBody"] = map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"type":       "object",
					"properties": properties,
				},
			},
		},
	}
	return op
}

var (
	stateParam = pathParam("state", "State name; matched case-insensitively, then by substring")
	stringList = map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}}
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Tourism Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	predict := operation("Predict visitors per category",
		"Linear trend of yearly visitors, scaled by each category's average rating",
		[]param{stateParam},
		map[string]string{"200": "Projection per category", "404": "State not found"})
	predictCategory := operation("Predict visitors for one category",
		"Historical series and a three-year unscaled projection",
		[]param{stateParam, pathParam("category", "City category")},
		map[string]string{"200": "Projection", "400": "Insufficient data for prediction", "404": "State or category not found"})
	compareStates := operation("Compare two states",
		"Field by field comparison, plus famous_for tags and top_city",
		[]param{queryParam("state1", "First state", "string"), queryParam("state2", "Second state", "string")},
		map[string]string{"200": "Comparison", "400": "Missing parameters", "404": "One or both states not found"})
	updateInterests := jsonBody(operation("Replace a user's interests", "",
		[]param{pathParam("username", "Account username")},
		map[string]string{"200": "Updated", "400": "Missing interests", "404": "User not found"}),
		map[string]interface{}{"interests": stringList})

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Tourism Platform API",
			"description": "Tourism, risk and weather information for Indian states and cities",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Tourism Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:5000", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/states": map[string]interface{}{
				"get": operation("List states", "All state names in table order", nil,
					map[string]string{"200": "State names"}),
			},
			"/states/{state}": map[string]interface{}{
				"get": operation("State detail", "Every state column except tourism_*", []param{stateParam},
					map[string]string{"200": "State record", "404": "State not found, with suggestions"}),
			},
			"/states/{state}/risk": map[string]interface{}{
				"get": operation("State risk", "Risk report; a placeholder when the state has no risk row", []param{stateParam},
					map[string]string{"200": "Risk report"}),
			},
			"/states/{state}/tourism_trends": map[string]interface{}{
				"get": operation("Visitors per year", "Maps each year to its visitor count", []param{stateParam},
					map[string]string{"200": "Year to visitors", "404": "State not found"}),
			},
			"/states/{state}/cities": map[string]interface{}{
				"get": operation("Cities of a state", "Empty list when nothing matches", []param{stateParam},
					map[string]string{"200": "City records"}),
			},
			"/states/{state}/cities/{city}": map[string]interface{}{
				"get": operation("City detail", "", []param{stateParam, pathParam("city", "City name")},
					map[string]string{"200": "City record", "404": "City not found"}),
			},
			"/interests": map[string]interface{}{
				"get": operation("List interests", "Distinct city categories, sorted", nil,
					map[string]string{"200": "Categories"}),
			},
			"/search_places": map[string]interface{}{
				"get": operation("Search places", "Filter cities; risk is on the 0-1 scale",
					[]param{
						queryParam("category", "City category", "string"),
						queryParam("month", "Month name or abbreviation", "string"),
						queryParam("min_rating", "Minimum rating (default 0)", "number"),
						queryParam("max_risk", "Maximum risk_index, 0-1 (default 1)", "number"),
					},
					map[string]string{"200": "Matching cities, or a message when none match", "400": "Malformed number"}),
			},
			"/recommend": map[string]interface{}{
				"get": operation("Recommendation usage", "Example request body", nil,
					map[string]string{"200": "Usage"}),
				"post": jsonBody(operation("Recommend places",
					"Top ten cities by rating then risk; max_risk is on the 0-10 scale (default 10)", nil,
					map[string]string{"200": "Recommendations", "400": "Invalid JSON input"}),
					map[string]interface{}{
						"interests":  stringList,
						"month":      map[string]string{"type": "string"},
						"max_risk":   map[string]string{"type": "number"},
						"min_rating": map[string]string{"type": "number"},
					}),
			},
			"/compare/states": map[string]interface{}{
				"get":  compareStates,
				"post": compareStates,
			},
			"/compare/cities": map[string]interface{}{
				"get": operation("Compare two cities", "Rating, risk, category and best time to visit",
					[]param{
						queryParam("state1", "State of the first city", "string"),
						queryParam("city1", "First city", "string"),
						queryParam("state2", "State of the second city", "string"),
						queryParam("city2", "Second city", "string"),
					},
					map[string]string{"200": "Comparison", "400": "Missing parameters", "404": "One or both cities not found"}),
			},
			"/predict_trend/{state}": map[string]interface{}{
				"get":  predict,
				"post": predict,
			},
			"/predict_trend/{state}/{category}": map[string]interface{}{
				"get":  predictCategory,
				"post": predictCategory,
			},
			"/cluster_states": map[string]interface{}{
				"get": operation("Cluster states", "k-means over population, GDP, safety and literacy", nil,
					map[string]string{"200": "Cluster assignments"}),
			},
			"/register": map[string]interface{}{
				"get": operation("Registration usage", "Example request body", nil,
					map[string]string{"200": "Usage"}),
				"post": jsonBody(operation("Register", "", nil,
					map[string]string{"201": "Registered", "400": "Missing fields", "409": "Username or Email already exists"}),
					map[string]interface{}{
						"username":  map[string]string{"type": "string"},
						"email":     map[string]string{"type": "string"},
						"password":  map[string]string{"type": "string"},
						"interests": stringList,
					}),
			},
			"/login": map[string]interface{}{
				"post": jsonBody(operation("Log in", "", nil,
					map[string]string{"200": "Login successful", "401": "Invalid credentials"}),
					map[string]interface{}{
						"username": map[string]string{"type": "string"},
						"password": map[string]string{"type": "string"},
					}),
			},
			"/user/{username}/interests": map[string]interface{}{
				"get": operation("Get a user's interests", "", []param{pathParam("username", "Account username")},
					map[string]string{"200": "Interests", "404": "User not found"}),
				"put":  updateInterests,
				"post": updateInterests,
			},
			"/users": map[string]interface{}{
				"get": operation("List users", "Accounts without password hashes", nil,
					map[string]string{"200": "Accounts", "503": "Account store unavailable"}),
			},
			"/weather/city/{city}": map[string]interface{}{
				"get": operation("City weather", "Current conditions from OpenWeatherMap",
					[]param{pathParam("city", "City name")},
					map[string]string{"200": "Weather", "401": "Invalid API key", "404": "Weather data not found", "502": "Unexpected provider response"}),
			},
			"/weather/state/{state}": map[string]interface{}{
				"get": operation("State weather", "Current conditions at the state's representative city",
					[]param{stateParam},
					map[string]string{"200": "Weather", "404": "State not found or no representative city available"}),
			},
			"/health": map[string]interface{}{
				"get": operation("Health check", "Dataset row counts and account store reachability", nil,
					map[string]string{"200": "Healthy", "503": "Account store unreachable"}),
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
	_ = json.NewEncoder(w).Encode(spec)
}
