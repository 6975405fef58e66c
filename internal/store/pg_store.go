package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ ProductStore = (*PgProductStore)(nil)
	_ UserStore    = (*PgUserStore)(nil)
	_ CartStore    = (*PgCartStore)(nil)
)

const foreignKeyViolation = "23503"

// dbtx is satisfied by both the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var readOnlySnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// withTransaction runs fn in a transaction that is committed when fn succeeds and rolled back otherwise.
func withTransaction(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w (cause: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const productColumns = "id, name, price, quantity, description, image_url"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Description, &p.ImageURL); err != nil {
		return nil, err
	}
	return &p, nil
}

// PgProductStore implements ProductStore using PostgreSQL as the data store.
type PgProductStore struct {
	db *pgxpool.Pool
}

// NewPgProductStore creates a ProductStore using a PostgreSQL connection pool.
func NewPgProductStore(dbp *pgxpool.Pool) *PgProductStore {
	return &PgProductStore{db: dbp}
}

func (s *PgProductStore) Save(ctx context.Context, product *Product) (*Product, error) {
	if product.ID == 0 {
		saved, err := scanProduct(s.db.QueryRow(ctx,
			`INSERT INTO products (name, price, quantity, description, image_url)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+productColumns,
			product.Name, product.Price, product.Quantity, product.Description, product.ImageURL))
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return saved, nil
	}

	saved, err := scanProduct(s.db.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, price = $3, quantity = $4, description = $5, image_url = $6
		 WHERE id = $1
		 RETURNING `+productColumns,
		product.ID, product.Name, product.Price, product.Quantity, product.Description, product.ImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", product.ID, perrors.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return saved, nil
}

func (s *PgProductStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, perrors.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return p, nil
}

// FindAll counts and reads the requested page within one snapshot so that the total matches the content.
func (s *PgProductStore) FindAll(ctx context.Context, filter ProductFilter, page PageRequest) (*Page[Product], error) {
	where, args := productWhere(filter)

	var total int64
	var products []Product
	err := withTransaction(ctx, s.db, readOnlySnapshot, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if total == 0 {
			return nil
		}
		pageArgs := append(args, page.Size, page.Offset())
		query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY id LIMIT $%d OFFSET $%d`,
			productColumns, where, len(args)+1, len(args)+2)
		var err error
		products, err = collectProducts(ctx, tx, query, pageArgs...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return NewPage(products, page, total), nil
}

func (s *PgProductStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, perrors.ErrProductNotFound)
	}
	return nil
}

func collectProducts(ctx context.Context, q dbtx, query string, args ...any) ([]Product, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		p, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// productWhere renders the filter as a parameterised WHERE clause.
func productWhere(f ProductFilter) (string, []any) {
	var conds []string
	var args []any
	if f.PartialName != nil {
		args = append(args, "%"+escapeLike(*f.PartialName)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// PgUserStore implements UserStore using PostgreSQL as the data store.
type PgUserStore struct {
	db *pgxpool.Pool
}

// NewPgUserStore creates a UserStore using a PostgreSQL connection pool.
func NewPgUserStore(dbp *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{db: dbp}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PgUserStore) Save(ctx context.Context, user *User) (*User, error) {
	if user.ID == 0 {
		saved, err := scanUser(s.db.QueryRow(ctx,
			`INSERT INTO users (role, first_name, last_name) VALUES ($1, $2, $3)
			 RETURNING id, role, first_name, last_name`,
			user.Role, user.FirstName, user.LastName))
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return saved, nil
	}

	saved, err := scanUser(s.db.QueryRow(ctx,
		`UPDATE users SET role = $2, first_name = $3, last_name = $4 WHERE id = $1
		 RETURNING id, role, first_name, last_name`,
		user.ID, user.Role, user.FirstName, user.LastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", user.ID, perrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return saved, nil
}

func (s *PgUserStore) FindByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT id, role, first_name, last_name FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, perrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// PgCartStore implements CartStore using PostgreSQL as the data store.
type PgCartStore struct {
	db *pgxpool.Pool
}

// NewPgCartStore creates a CartStore using a PostgreSQL connection pool.
func NewPgCartStore(dbp *pgxpool.Pool) *PgCartStore {
	return &PgCartStore{db: dbp}
}

func (s *PgCartStore) AddProducts(ctx context.Context, userID int64, productIDs []int64) error {
	err := withTransaction(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID); err != nil {
			return mapCartError(err, userID)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart_products (user_id, product_id)
			 SELECT $1, unnest($2::bigint[])
			 ON CONFLICT DO NOTHING`, userID, productIDs); err != nil {
			return mapCartError(err, userID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add products to cart: %w", err)
	}
	return nil
}

func (s *PgCartStore) FindByUserID(ctx context.Context, userID int64) (*Cart, error) {
	cart := &Cart{UserID: userID}
	err := withTransaction(ctx, s.db, readOnlySnapshot, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM carts WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to find cart: %w", err)
		}
		if !exists {
			return fmt.Errorf("cart %d: %w", userID, perrors.ErrCartNotFound)
		}
		products, err := collectProducts(ctx, tx,
			`SELECT p.id, p.name, p.price, p.quantity, p.description, p.image_url
			 FROM cart_products cp JOIN products p ON p.id = cp.product_id
			 WHERE cp.user_id = $1
			 ORDER BY p.id`, userID)
		if err != nil {
			return err
		}
		cart.Products = products
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cart.Products == nil {
		cart.Products = []Product{}
	}
	return cart, nil
}

// mapCartError turns foreign key violations into the not-found error of the missing entity.
func mapCartError(err error, userID int64) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "carts_user_id_fkey":
		return fmt.Errorf("user %d: %w", userID, perrors.ErrUserNotFound)
	case "cart_products_product_id_fkey":
		return fmt.Errorf("%s: %w", pgErr.Detail, perrors.ErrProductNotFound)
	default:
		return err
	}
}
