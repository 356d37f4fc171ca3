package models

import "time"

type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Profiles  []string          `json:"profiles,omitempty"`
}
