package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORSOriginsExplicitList(t *testing.T) {
	c := &Config{
		CORSAllowedOrigins: "https://app.gearguard.io, https://staging.gearguard.io",
		FrontendURL:        "http://localhost:3000",
	}
	require.Equal(t,
		[]string{"https://app.gearguard.io", "https://staging.gearguard.io"},
		c.CORSOrigins())
}

func TestCORSOriginsDefaultsToFrontend(t *testing.T) {
	c := &Config{FrontendURL: "http://localhost:3000"}
	require.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins())
}
