// Package mqtt defines the contract for publishing forecast results to a
// message broker.
package mqtt

import (
	"context"

	"github.com/kilianp07/regcast/core/model"
)

// ForecastMessage is the payload published for each completed forecast.
type ForecastMessage struct {
	MessageID   string                `json:"messageId"`
	RequestID   string                `json:"requestId"`
	Category    string                `json:"vehicleType"`
	TargetYear  int                   `json:"year"`
	Method      string                `json:"method"`
	RSquared    float64               `json:"rSquared"`
	Predictions []model.ForecastPoint `json:"predictions"`
	Timestamp   int64                 `json:"timestamp"`
}

// Publisher sends forecast messages to a broker.
type Publisher interface {
	// PublishForecast publishes msg and returns the message identifier
	// assigned to it.
	PublishForecast(ctx context.Context, msg ForecastMessage) (messageID string, err error)
}
