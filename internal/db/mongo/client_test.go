package mongo

import (
	"context"
	"testing"
)

func TestNewStore_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing uri", Config{Database: "betahouse"}},
		{"missing database", Config{URI: "mongodb://localhost:27017"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStore(context.Background(), tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewStore_LazyConnect(t *testing.T) {
	// mongo.Connect does not dial; an unreachable host still yields a client.
	s, err := NewStore(context.Background(), Config{URI: "mongodb://127.0.0.1:1", Database: "betahouse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Collection("properties").Name() != "properties" {
		t.Error("collection name mismatch")
	}
	_ = s.Close(context.Background())
}
