package bootstrap

import (
	"clinic-scheduler/internal/pkg/metrics"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Invoke(func() {
		metrics.Register()
	}),
)
