package memory

import "context"

// HealthChecker reports the memory driver as always reachable.
type HealthChecker struct{}

func (HealthChecker) Ping(ctx context.Context) error { return nil }
func (HealthChecker) Name() string                   { return "memory" }
