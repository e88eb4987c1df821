package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	pkgDatabase "library-backend/pkg/database"
)

// migrationLockKey serializes Migrate across instances starting at the same time.
const migrationLockKey int64 = 7_262_531

// ErrDirtyMigration is returned when a previous run stopped halfway through a version.
var ErrDirtyMigration = errors.New("database is in a dirty migration state")

// Migration is one up file.
type Migration struct {
	Version uint64
	Name    string
	SQL     string
}

// LoadMigrations reads the NNNNNN_name.up.sql files of fsys ordered by version.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	seen := make(map[uint64]string)
	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".up.sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: expected NNNNNN_name.up.sql", name)
		}
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil || version == 0 {
			return nil, fmt.Errorf("migration %q: invalid version %q", name, prefix)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %q: version %d already used by %q", name, version, other)
		}
		seen[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}
		out = append(out, Migration{Version: version, Name: rest, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate applies the pending up migrations of fsys and returns how many ran.
// The current version lives in schema_migrations with the layout golang-migrate uses,
// so the migrate CLI can run down or force against the same database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) (int, error) {
	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return 0, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey); err != nil {
			log.Warn().Err(err).Msg("[DATABASE] failed to release migration lock")
		}
	}()

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT NOT NULL PRIMARY KEY,
		dirty   BOOLEAN NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	var (
		current int64
		dirty   bool
	)
	err = conn.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&current, &dirty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("%w: version %d", ErrDirtyMigration, current)
	}

	applied := 0
	for _, m := range migrations {
		if int64(m.Version) <= current {
			continue
		}

		err := pkgDatabase.WithTransaction(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
			// no arguments, so the whole file goes over the simple protocol
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations`); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES ($1, FALSE)`, int64(m.Version))
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("migration %06d_%s: %w", m.Version, m.Name, err)
		}

		log.Info().Uint64("version", m.Version).Str("name", m.Name).Msg("[DATABASE] migration applied")
		applied++
	}

	return applied, nil
}
