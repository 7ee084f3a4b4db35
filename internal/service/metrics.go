package service

// Metrics recibe contadores de negocio; la implementacion real vive en internal/metrics.
type Metrics interface {
	IncSubmissions(kind string)
	ObserveParticipants(n int)
}

type NopMetrics struct{}

func (NopMetrics) IncSubmissions(string)   {}
func (NopMetrics) ObserveParticipants(int) {}
