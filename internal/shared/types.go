package shared

import (
	"errors"
	"time"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ServiceConfig is loaded once at startup and read-only afterwards. It is
// shared by every in-flight request, so nothing may mutate it after Validate.
type ServiceConfig struct {
	APIKey    string
	BaseURL   string
	AuthURL   string
	ProjectID string
	ModelID   string

	InferenceTimeout time.Duration
}

// Validate enforces the hard startup preconditions. A config that fails here
// must keep the process from accepting connections at all.
func (c *ServiceConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("api key is required")
	}
	if c.ProjectID == "" {
		return errors.New("project id is required")
	}
	if c.BaseURL == "" {
		return errors.New("base url is required")
	}
	if c.ModelID == "" {
		return errors.New("model id is required")
	}
	if c.InferenceTimeout <= 0 {
		return errors.New("inference timeout must be positive")
	}
	return nil
}
