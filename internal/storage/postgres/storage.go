package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/storage"
	"github.com/mcoot/studentdesk/internal/storage/postgres/migrations"
)

// SQLSTATE raised by a violated UNIQUE constraint
const uniqueViolation = "23505"

// gooseUpContext is swapped out in tests
var gooseUpContext = goose.UpContext

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens a connection pool for dsn and verifies it with a ping
func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing *sql.DB (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Migrate applies all pending schema migrations
func (s *Storage) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

// CreateUser relies on the users_username_key constraint for uniqueness
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		query :=
			`INSERT INTO users (username, password_hash)
			 VALUES ($1, $2)
			 RETURNING id, created_at`

		return tx.QueryRowContext(ctx, query, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	query :=
		`SELECT id, username, password_hash, created_at FROM users
		 WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, int64(id)))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query :=
		`SELECT id, username, password_hash, created_at FROM users
		 WHERE username = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Student operations

const studentColumns = `id, first_name, last_name, email, age, city`

func (s *Storage) CreateStudent(ctx context.Context, fields model.StudentFields) (*model.Student, error) {
	student := &model.Student{StudentFields: fields}

	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		query :=
			`INSERT INTO students (first_name, last_name, email, age, city)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`

		return tx.QueryRowContext(ctx, query,
			fields.FirstName, fields.LastName, fields.Email, nullableAge(fields.Age), fields.City,
		).Scan(&student.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return student, nil
}

func (s *Storage) ListStudents(ctx context.Context) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	students := make([]*model.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return students, nil
}

func (s *Storage) GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(s.db.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStudentNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return student, nil
}

func (s *Storage) UpdateStudent(ctx context.Context, id model.StudentID, fields model.StudentFields) (*model.Student, error) {
	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		query :=
			`UPDATE students
			 SET first_name = $1, last_name = $2, email = $3, age = $4, city = $5
			 WHERE id = $6
			 RETURNING id`

		var updated model.StudentID
		return tx.QueryRowContext(ctx, query,
			fields.FirstName, fields.LastName, fields.Email, nullableAge(fields.Age), fields.City, int64(id),
		).Scan(&updated)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStudentNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &model.Student{ID: id, StudentFields: fields}, nil
}

func (s *Storage) DeleteStudent(ctx context.Context, id model.StudentID) error {
	err := WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, int64(id))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrStudentNotFound) {
			return err
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*model.Student, error) {
	var (
		student model.Student
		age     sql.NullInt64
	)
	err := row.Scan(&student.ID, &student.FirstName, &student.LastName, &student.Email, &age, &student.City)
	if err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		student.Age = &v
	}
	return &student, nil
}

func nullableAge(age *int) any {
	if age == nil {
		return nil
	}
	return int64(*age)
}
