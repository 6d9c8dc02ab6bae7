package utils

// DefaultServiceName names the service in traces and startup logs.
const DefaultServiceName = "buildrs-api"

// IsTracingEnabled is opt-in through OTEL_TRACES_ENABLED.
func IsTracingEnabled() bool {
	return GetEnvBoolOrDefault("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", DefaultServiceName)
}
