package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.7, cfg.Retrieval.SemanticWeight)
	assert.Equal(t, 0.3, cfg.Retrieval.GraphWeight)
	assert.Equal(t, 5, cfg.Retrieval.MaxSemanticResults)
	assert.Equal(t, 3, cfg.Retrieval.MaxGraphResults)
	assert.Equal(t, 0.1, cfg.Retrieval.MinSimilarity)
	assert.Equal(t, 800, cfg.Chunking.ChunkSize)
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero chunk size", mutate: func(c *Config) { c.Chunking.ChunkSize = 0 }},
		{name: "overlap >= chunk size", mutate: func(c *Config) { c.Chunking.ChunkOverlap = c.Chunking.ChunkSize }},
		{name: "negative min chunk size", mutate: func(c *Config) { c.Chunking.MinChunkSize = -1 }},
		{name: "zero workers", mutate: func(c *Config) { c.Embedding.MaxWorkers = 0 }},
		{name: "semantic weight above 1", mutate: func(c *Config) { c.Retrieval.SemanticWeight = 1.5 }},
		{name: "negative graph weight", mutate: func(c *Config) { c.Retrieval.GraphWeight = -0.1 }},
		{name: "min similarity below -1", mutate: func(c *Config) { c.Retrieval.MinSimilarity = -2 }},
		{name: "zero semantic results", mutate: func(c *Config) { c.Retrieval.MaxSemanticResults = 0 }},
		{name: "zero graph results", mutate: func(c *Config) { c.Retrieval.MaxGraphResults = 0 }},
		{name: "zero extraction chars", mutate: func(c *Config) { c.Extraction.MaxChars = 0 }},
		{name: "trip ratio above 1", mutate: func(c *Config) { c.CircuitBreaker.ReadyToTripRatio = 1.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyProfile(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.ApplyProfile(ProfileFast))
	assert.Equal(t, 2000, cfg.Chunking.ChunkSize)
	assert.Equal(t, 5, cfg.Embedding.MaxWorkers)
	require.NoError(t, cfg.Validate())

	require.NoError(t, cfg.ApplyProfile(ProfileQuality))
	assert.Equal(t, 1000, cfg.Chunking.ChunkSize)
	assert.Equal(t, 150, cfg.Chunking.ChunkOverlap)
	require.NoError(t, cfg.Validate())

	assert.Error(t, cfg.ApplyProfile("turbo"))
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Retrieval, cfg.Retrieval)
	assert.Equal(t, Default().Chunking, cfg.Chunking)
}
