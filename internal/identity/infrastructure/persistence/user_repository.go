package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "password_hash", "email", "national_id", "phone", "birth_date",
	"active", "role", "last_login", "created_at", "updated_at", "created_by",
	"updated_by", "version",
}

// UserRepository stores users in PostgreSQL or SQLite. Only canonical
// scalars are written; loaded rows go back through domain.RehydrateUser.
type UserRepository struct {
	conn database.Connection
	sb   sq.StatementBuilderType
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a repository for the connection's driver.
func NewUserRepository(conn database.Connection) *UserRepository {
	return &UserRepository{conn: conn, sb: conn.Driver().Builder()}
}

func (r *UserRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *UserRepository) driver() database.Driver {
	return r.conn.Driver()
}

// Save inserts users that were never stored and updates the others when
// their version still matches the stored one.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.Version() == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *UserRepository) insert(ctx context.Context, user *domain.User) error {
	s := user.Snapshot()
	query, args, err := r.sb.Insert(usersTable).
		Columns(userColumns...).
		Values(
			s.ID.String(), s.Name, s.PasswordHash, s.Email, s.NationalID, s.Phone,
			r.driver().Time(s.BirthDate), s.Active, s.Role, r.driver().NullTime(s.LastLogin),
			r.driver().Time(s.CreatedAt), r.driver().Time(s.UpdatedAt), s.CreatedBy, s.UpdatedBy, 1,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.exec(ctx).Exec(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user %s: %w", s.ID, err)
	}
	user.SetVersion(1)
	return nil
}

func (r *UserRepository) update(ctx context.Context, user *domain.User) error {
	s := user.Snapshot()
	query, args, err := r.sb.Update(usersTable).
		SetMap(map[string]any{
			"name":          s.Name,
			"password_hash": s.PasswordHash,
			"email":         s.Email,
			"national_id":   s.NationalID,
			"phone":         s.Phone,
			"birth_date":    r.driver().Time(s.BirthDate),
			"active":        s.Active,
			"role":          s.Role,
			"last_login":    r.driver().NullTime(s.LastLogin),
			"updated_at":    r.driver().Time(s.UpdatedAt),
			"created_by":    s.CreatedBy,
			"updated_by":    s.UpdatedBy,
			"version":       s.Version + 1,
		}).
		Where(sq.Eq{"id": s.ID.String(), "version": s.Version}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.exec(ctx).Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("update user %s: %w", s.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		exists, err := r.exists(ctx, sq.Eq{"id": s.ID.String()})
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}
		return sharedDomain.ErrOptimisticLock
	}

	user.SetVersion(s.Version + 1)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id.String()})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"email": email.String()})
}

func (r *UserRepository) FindByNationalID(ctx context.Context, nationalID domain.NationalID) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"national_id": nationalID.String()})
}

// FindByPhone returns the oldest user holding the number. Phones are not
// unique.
func (r *UserRepository) FindByPhone(ctx context.Context, phone domain.Phone) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"phone": phone.String()})
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From(usersTable).
		Where(where).
		OrderBy("created_at", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.exec(ctx).QueryRow(ctx, query, args...))
	if database.IsNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

// List returns one page of users, oldest first, and the number of users
// matching the filter.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	where := r.filterClause(filter)

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From(usersTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.exec(ctx).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	builder := r.sb.Select(userColumns...).
		From(usersTable).
		Where(where).
		OrderBy("created_at", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(convert.ClampUint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(convert.ClampUint64(filter.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// filterClause matches roles with ANY over a text array on PostgreSQL and
// with IN on SQLite, which has no array type.
func (r *UserRepository) filterClause(filter domain.UserFilter) sq.And {
	where := sq.And{}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = role.String()
		}
		if r.driver() == database.DriverPostgres {
			where = append(where, sq.Expr("role = ANY(?)", pq.Array(roles)))
		} else {
			where = append(where, sq.Eq{"role": roles})
		}
	}
	if filter.Active != nil {
		where = append(where, sq.Eq{"active": *filter.Active})
	}
	return where
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Delete(usersTable).Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.exec(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	return r.exists(ctx, sq.Eq{"email": email.String()})
}

func (r *UserRepository) ExistsByNationalID(ctx context.Context, nationalID domain.NationalID) (bool, error) {
	return r.exists(ctx, sq.Eq{"national_id": nationalID.String()})
}

func (r *UserRepository) exists(ctx context.Context, where sq.Sqlizer) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").From(usersTable).Where(where).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.exec(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return n > 0, nil
}

func scanUser(row database.Row) (*domain.User, error) {
	var (
		s                    domain.UserSnapshot
		id                   string
		birthDate, lastLogin database.Timestamp
		createdAt, updatedAt database.Timestamp
	)
	err := row.Scan(
		&id, &s.Name, &s.PasswordHash, &s.Email, &s.NationalID, &s.Phone, &birthDate,
		&s.Active, &s.Role, &lastLogin, &createdAt, &updatedAt, &s.CreatedBy,
		&s.UpdatedBy, &s.Version,
	)
	if err != nil {
		return nil, err
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("user id %q: %w", id, err)
	}
	s.BirthDate = birthDate.Time
	s.LastLogin = lastLogin.Ptr()
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	user, err := domain.RehydrateUser(s)
	if err != nil {
		return nil, fmt.Errorf("rehydrate user %s: %w", s.ID, err)
	}
	return user, nil
}
