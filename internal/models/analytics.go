package models

// CategoryPrediction is one entry of the grouped trend response.
type CategoryPrediction struct {
	AverageTouristRating    float64        `json:"average_tourist_rating"`
	PredictedVisitorsByYear map[string]int `json:"predicted_visitors_by_year"`
}

// StateTrend is the grouped (all categories) trend response.
type StateTrend struct {
	State               string                        `json:"state"`
	CategoryPredictions map[string]CategoryPrediction `json:"category_predictions"`
}

// CategoryTrend is the single-category trend response.
type CategoryTrend struct {
	State             string      `json:"state"`
	Category          string      `json:"category"`
	HistoricalData    []YearCount `json:"historical_data"`
	FuturePredictions []YearCount `json:"future_predictions"`
	ModelAccuracy     string      `json:"model_accuracy"`
}

// ClusterAssignment labels one state.
type ClusterAssignment struct {
	StateName string `json:"state_name"`
	Cluster   int    `json:"cluster"`
}

// ClusterResult is computed per request and never stored.
type ClusterResult struct {
	TotalClusters  int                 `json:"total_clusters"`
	ClusterSummary []ClusterAssignment `json:"cluster_summary"`
	Excluded       []string            `json:"excluded"`
}

// Comparison maps field -> label -> value.
type Comparison map[string]map[string]interface{}
