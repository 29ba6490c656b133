package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/migrations"
)

// Options configures the connection pool. One Store is built per process and
// passed to every service.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LockTimeout     time.Duration
}

// Repositories groups every repository bound to the same executor,
// either the pool or one open transaction.
type Repositories struct {
	Loans        LoanRepository
	Installments InstallmentRepository
	Ledger       LedgerRepository
	Customers    CustomerRepository
	Vehicles     VehicleRepository
	Seizures     SeizureRepository
	Branches     BranchRepository
	Agents       AgentRepository
	Reports      ReportRepository
}

func newRepositories(db sqlx.ExtContext, d Dialect) *Repositories {
	return &Repositories{
		Loans:        NewLoanRepository(db, d),
		Installments: NewInstallmentRepository(db),
		Ledger:       NewLedgerRepository(db),
		Customers:    NewCustomerRepository(db),
		Vehicles:     NewVehicleRepository(db),
		Seizures:     NewSeizureRepository(db),
		Branches:     NewBranchRepository(db),
		Agents:       NewAgentRepository(db),
		Reports:      NewReportRepository(db, d),
	}
}

// Store owns the connection pool and hands out transactional scopes.
type Store struct {
	db          *sqlx.DB
	dialect     Dialect
	lockTimeout time.Duration
	repos       *Repositories
}

// Open connects to the database described by opts and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Driver != DriverPostgres && opts.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// one writer at a time; an in-memory database lives as long as its connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewStore(db, opts.LockTimeout), nil
}

// NewStore wraps an existing pool. The dialect follows db.DriverName().
func NewStore(db *sqlx.DB, lockTimeout time.Duration) *Store {
	d := Dialect{Driver: db.DriverName()}
	return &Store{
		db:          db,
		dialect:     d,
		lockTimeout: lockTimeout,
		repos:       newRepositories(db, d),
	}
}

// Migrate applies the embedded schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	schema, err := migrations.Schema(s.dialect.Driver)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Repositories returns the repositories bound to the pool, outside any transaction.
func (s *Store) Repositories() *Repositories {
	return s.repos
}

// WithTx runs fn inside one transaction. The transaction commits only when fn
// returns nil; any error or panic rolls everything back.
// fn must only use the repositories it is given.
func (s *Store) WithTx(ctx context.Context, fn func(r *Repositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if stmt := s.dialect.LockTimeout(s.lockTimeout); stmt != "" {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return classify(err)
		}
	}

	if err = fn(newRepositories(tx, s.dialect)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// WithLoanLock opens a transaction, locks the loan row and hands the locked
// loan to fn. The lock is released when the transaction ends, on every path.
func (s *Store) WithLoanLock(ctx context.Context, loanID uuid.UUID, fn func(r *Repositories, loan *domain.Loan) error) error {
	return s.WithTx(ctx, func(r *Repositories) error {
		loan, err := r.Loans.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, loan)
	})
}
