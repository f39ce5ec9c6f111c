package storage

import (
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

const (
	insertRunSQL = `
INSERT INTO runs (created_at,
                  capture_count,
                  channel_count,
                  bin_count,
                  window_low,
                  window_high,
                  config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?, ?)`

	insertStatusSQL = `
INSERT INTO antenna_status (run_id,
                            channel,
                            status)
VALUES `

	insertBadCaptureSQL = `
INSERT INTO bad_captures (run_id,
                          day_id,
                          path,
                          z_score)
VALUES (?, ?, ?, ?)`
)
