package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-notice-api/pkg/config"
)

func TestPostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "board", Password: "p@ss word", Name: "notice_board", SSLMode: "disable"}
	assert.Equal(t, "postgres://board:p%40ss%20word@db:5432/notice_board?sslmode=disable", PostgresDSN(cfg))

	cfg.URL = "postgres://neon.example.com/board?sslmode=require"
	assert.Equal(t, cfg.URL, PostgresDSN(cfg))
}
