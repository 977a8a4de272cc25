package models

// Health is the body of the liveness and readiness probes.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    Timestamp      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// SystemStatus is the operator view of the service and its dependencies.
type SystemStatus struct {
	Status            HealthStatus       `json:"status"`
	Time              Timestamp          `json:"time"`
	CatalogGeneration *int64             `json:"catalogGeneration,omitempty"`
	Dependencies      []DependencyStatus `json:"dependencies"`
}

// DependencyStatus reports one guarded dependency.
type DependencyStatus struct {
	Name          string       `json:"name"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	Requests      uint32       `json:"requests"`
	Failures      uint32       `json:"failures"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	Message       *string      `json:"message,omitempty"`
}
