package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)

	// SQLite's LOWER only folds ASCII; search needs the same folding Go
	// applies to the query.
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, foldFunc)
}

// foldFunc implements fold(x): x lowercased with Unicode rules, NULL kept.
func foldFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// SQLiteStore owns the database handle and the per-entity stores built on it.
// It is constructed once and passed to whoever needs persistence.
type SQLiteStore struct {
	db  *sqlx.DB
	log logrus.FieldLogger
	now func() time.Time

	Homes       *HomeStore
	Categories  *CategoryStore
	Locations   *LocationStore
	Assets      *AssetStore
	Providers   *ServiceProviderStore
	Records     *MaintenanceRecordStore
	Tasks       *MaintenanceTaskStore
	Attachments *AttachmentStore
}

// AppliedMigration is one row of the migration ledger.
type AppliedMigration struct {
	Version   int       `db:"version"`
	Name      string    `db:"name"`
	AppliedAt time.Time `db:"applied_at"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables
// foreign keys and WAL mode on every connection, and runs any pending
// schema migrations. A migration failure is returned as *MigrationError
// and the store is not usable.
func NewSQLiteStore(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One writer, one connection: SQLite serializes writes anyway and an
	// in-memory database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dbPath, err)
	}

	s := newStore(db, log)
	if err := s.runMigrations(context.Background(), migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// newStore wires the entity stores around an already-open handle.
func newStore(db *sqlx.DB, log logrus.FieldLogger) *SQLiteStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &SQLiteStore{db: db, log: log, now: time.Now}
	clock := func() time.Time { return s.now() }

	s.Homes = &HomeStore{Repository: newRepository(db, homeTable, clock)}
	s.Categories = &CategoryStore{Repository: newRepository(db, categoryTable, clock)}
	s.Locations = &LocationStore{Repository: newRepository(db, locationTable, clock)}
	s.Assets = &AssetStore{Repository: newRepository(db, assetTable, clock)}
	s.Providers = &ServiceProviderStore{Repository: newRepository(db, providerTable, clock)}
	s.Records = &MaintenanceRecordStore{Repository: newRepository(db, recordTable, clock)}
	s.Tasks = &MaintenanceTaskStore{Repository: newRepository(db, taskTable, clock)}
	s.Attachments = &AttachmentStore{Repository: newRepository(db, attachmentTable, clock)}

	return s
}

// dsn adds the per-connection pragmas to a database path. modernc applies
// _pragma values to every connection it opens, which PRAGMA statements
// issued through the pool would not guarantee.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return path + "?" + q.Encode()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx executes fn within a transaction. If fn returns an error the
// transaction is rolled back; otherwise it is committed.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return withTx(ctx, s.db, fn)
}

// AppliedMigrations returns the migration ledger in version order.
func (s *SQLiteStore) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	var out []AppliedMigration
	err := s.db.SelectContext(ctx, &out,
		"SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, storageErr("reading migration ledger", err)
	}
	return out, nil
}

// runMigrations creates the ledger if needed and applies, in order, every
// step whose version is not recorded. Each step and its ledger row commit
// together or not at all.
func (s *SQLiteStore) runMigrations(ctx context.Context, steps []migration) error {
	for i := 1; i < len(steps); i++ {
		if steps[i].version <= steps[i-1].version {
			return fmt.Errorf("migration v%d (%s) is out of order", steps[i].version, steps[i].name)
		}
	}

	if _, err := s.db.ExecContext(ctx, ledgerDDL); err != nil {
		return &MigrationError{Name: "schema_migrations", Err: err}
	}

	var versions []int
	if err := s.db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return &MigrationError{Name: "schema_migrations", Err: err}
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range steps {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"version": m.version,
			"name":    m.name,
		}).Info("applied migration")
	}

	return nil
}

func (s *SQLiteStore) applyMigration(ctx context.Context, m migration) error {
	fail := func(err error) error {
		return &MigrationError{Version: m.version, Name: m.name, Err: err}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fail(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fail(err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, s.now().UTC(),
	); err != nil {
		return fail(err)
	}

	if err := tx.Commit(); err != nil {
		return fail(err)
	}
	return nil
}
