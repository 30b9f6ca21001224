package app

import (
	"testing"

	coreconfig "github.com/formrunner/formrunner/core/config"
)

func TestDatabaseConfigMapping(t *testing.T) {
	in := coreconfig.DatabaseConfig{
		Host:           "db.internal",
		Port:           "5433",
		User:           "formrunner",
		Password:       "secret",
		Name:           "forms",
		SSLMode:        "require",
		MaxConnections: 12,
	}

	out := databaseConfig(in)

	if out.Host != in.Host || out.Port != in.Port {
		t.Fatalf("address mismatch: got %s:%s", out.Host, out.Port)
	}
	if out.User != in.User || out.Password != in.Password || out.Name != in.Name {
		t.Fatalf("credentials mismatch: got user=%q name=%q", out.User, out.Name)
	}
	if out.SSLMode != in.SSLMode {
		t.Fatalf("sslmode mismatch: got %q", out.SSLMode)
	}
	if out.MaxConnections != in.MaxConnections {
		t.Fatalf("max connections mismatch: got %d", out.MaxConnections)
	}
}
