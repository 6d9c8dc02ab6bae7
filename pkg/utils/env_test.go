package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" a, ,b ,"))
	assert.Empty(t, SplitCSV(""))
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("UTILS_TEST_INT", "7")
	assert.Equal(t, 7, GetEnvIntOrDefault("UTILS_TEST_INT", 3))

	t.Setenv("UTILS_TEST_INT", "-1")
	assert.Equal(t, 3, GetEnvIntOrDefault("UTILS_TEST_INT", 3))

	t.Setenv("UTILS_TEST_INT", "seven")
	assert.Equal(t, 3, GetEnvIntOrDefault("UTILS_TEST_INT", 3))
}

func TestOTelServiceName_Default(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	assert.Equal(t, "buildrs-api", OTelServiceName())
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("UTILS_TEST_BOOL", "")
	assert.True(t, GetEnvBoolOrDefault("UTILS_TEST_BOOL", true))

	t.Setenv("UTILS_TEST_BOOL", " false ")
	assert.False(t, GetEnvBoolOrDefault("UTILS_TEST_BOOL", true))

	t.Setenv("UTILS_TEST_BOOL", "maybe")
	assert.False(t, GetEnvBoolOrDefault("UTILS_TEST_BOOL", false))
}

func TestIsTracingEnabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "")
	assert.False(t, IsTracingEnabled())

	t.Setenv("OTEL_TRACES_ENABLED", "1")
	assert.True(t, IsTracingEnabled())
}
