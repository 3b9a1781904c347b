package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is written in the subset of SQL shared by MySQL and SQLite so the
// same statements run in production and in tests.  Ids are UUID strings and
// tag sets are JSON text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36)  NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(32)  NOT NULL,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id             VARCHAR(36)  NOT NULL PRIMARY KEY,
		title          VARCHAR(255) NOT NULL,
		description    TEXT         NOT NULL,
		status         VARCHAR(32)  NOT NULL,
		location       VARCHAR(255) NOT NULL,
		opened_at      DATETIME     NOT NULL,
		responsible_id VARCHAR(36)  NULL,
		created_at     DATETIME     NOT NULL,
		updated_at     DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS evidence (
		id           VARCHAR(36)  NOT NULL PRIMARY KEY,
		case_id      VARCHAR(36)  NOT NULL,
		type         VARCHAR(32)  NOT NULL,
		description  TEXT         NOT NULL,
		collected_at DATETIME     NOT NULL,
		collected_by VARCHAR(36)  NULL,
		file_url     VARCHAR(2048) NOT NULL,
		created_at   DATETIME     NOT NULL,
		updated_at   DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dental_records (
		id                     VARCHAR(36)   NOT NULL PRIMARY KEY,
		type                   VARCHAR(32)   NOT NULL,
		registration_date      DATETIME      NOT NULL,
		general_characteristic TEXT          NOT NULL,
		status                 VARCHAR(32)   NOT NULL,
		dentition_type         VARCHAR(32)   NOT NULL,
		specific_features      TEXT          NOT NULL,
		arch_region            TEXT          NOT NULL,
		file_url               VARCHAR(2048) NOT NULL,
		created_at             DATETIME      NOT NULL,
		updated_at             DATETIME      NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id                   VARCHAR(36)  NOT NULL PRIMARY KEY,
		title                VARCHAR(255) NOT NULL,
		report_number        VARCHAR(64)  NOT NULL UNIQUE,
		issue_date           DATETIME     NOT NULL,
		report_type          VARCHAR(32)  NOT NULL,
		introduction         TEXT         NOT NULL,
		methodology          TEXT         NOT NULL,
		analysis_and_results TEXT         NOT NULL,
		conclusion           TEXT         NOT NULL,
		responsible_id       VARCHAR(36)  NULL,
		evidence_id          VARCHAR(36)  NULL,
		created_at           DATETIME     NOT NULL,
		updated_at           DATETIME     NOT NULL
	)`,
}

// Migrate creates any missing tables.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
