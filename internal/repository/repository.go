package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"monipersonal/server/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ---- students ----

const studentColumns = `id, name, email, phone, password_hash, birth_date, active, created_at`

func scanStudent(row pgxRow) (model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.PasswordHash,
		&student.BirthDate,
		&student.Active,
		&student.CreatedAt,
	)
	return student, err
}

type pgxRow interface {
	Scan(dest ...any) error
}

func (s *Store) CreateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO students (name, email, phone, password_hash, birth_date, active, created_at)
		VALUES ($1, $2, $3, $4, $5, true, now())
		RETURNING `+studentColumns+`
	`, student.Name, student.Email, student.Phone, student.PasswordHash, student.BirthDate)
	return scanStudent(row)
}

func (s *Store) GetStudentByEmail(ctx context.Context, email string) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE email = $1
	`, email)
	return scanStudent(row)
}

func (s *Store) GetActiveStudentByEmail(ctx context.Context, email string) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE email = $1 AND active = true
	`, email)
	return scanStudent(row)
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id = $1
	`, id)
	return scanStudent(row)
}

// FindActiveStudent implements auth.StudentFinder: the per-resolution
// "backing record must still be active" check.
func (s *Store) FindActiveStudent(ctx context.Context, id int64) (*model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id = $1 AND active = true
	`, id)
	student, err := scanStudent(row)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

// StudentUpdate carries the patchable student fields; nil means unchanged.
type StudentUpdate struct {
	Name      *string
	Phone     *string
	BirthDate *time.Time
	Active    *bool
}

func (s *Store) UpdateStudent(ctx context.Context, id int64, update StudentUpdate) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE students
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    birth_date = COALESCE($4, birth_date),
		    active = COALESCE($5, active)
		WHERE id = $1
		RETURNING `+studentColumns+`
	`, id, update.Name, update.Phone, update.BirthDate, update.Active)
	return scanStudent(row)
}

func (s *Store) DeactivateStudent(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE students SET active = false WHERE id = $1`, id)
	return err
}

// ---- operators ----

const operatorColumns = `id, email, name, password_hash, role, active, created_at`

func scanOperator(row pgxRow) (model.Operator, error) {
	var operator model.Operator
	err := row.Scan(
		&operator.ID,
		&operator.Email,
		&operator.Name,
		&operator.PasswordHash,
		&operator.Role,
		&operator.Active,
		&operator.CreatedAt,
	)
	return operator, err
}

func (s *Store) GetActiveOperatorByEmail(ctx context.Context, email string) (model.Operator, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+operatorColumns+`
		FROM operators
		WHERE email = $1 AND active = true
	`, email)
	return scanOperator(row)
}

func (s *Store) CountOperators(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM operators`).Scan(&count)
	return count, err
}

func (s *Store) CreateOperator(ctx context.Context, operator model.Operator) (model.Operator, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO operators (email, name, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, true, now())
		RETURNING `+operatorColumns+`
	`, operator.Email, operator.Name, operator.PasswordHash, operator.Role)
	return scanOperator(row)
}
