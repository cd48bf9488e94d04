package quote

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS quotes (
			seq        BIGSERIAL,
			id         TEXT PRIMARY KEY,
			client     TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			total      DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS quote_items (
			quote_id   TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			pos        INT NOT NULL,
			id         TEXT NOT NULL,
			product_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			quantity   INT NOT NULL,
			price      DOUBLE PRECISION NOT NULL,
			subtotal   DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (quote_id, pos)
		);
	`)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Create(ctx context.Context, q Quote) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO quotes (id, client, notes, total, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, q.ID, q.Client, q.Notes, q.Total, q.CreatedAt)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO quote_items (quote_id, pos, id, product_id, name, quantity, price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, it := range q.Items {
			if _, err := stmt.ExecContext(ctx, q.ID, i, it.ID, it.ProductID, it.Name, it.Quantity, it.Price, it.Subtotal); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Quote, error) {
	var out []Quote

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, client, notes, total, created_at
			FROM quotes
			ORDER BY seq ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Quote, 0, 16)
		idx := map[string]int{}
		for rows.Next() {
			var q Quote
			if err := rows.Scan(&q.ID, &q.Client, &q.Notes, &q.Total, &q.CreatedAt); err != nil {
				return err
			}
			q.Items = []LineItem{}
			idx[q.ID] = len(out)
			out = append(out, q)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		irows, err := s.db.QueryContext(ctx, `
			SELECT quote_id, id, product_id, name, quantity, price, subtotal
			FROM quote_items
			ORDER BY quote_id, pos ASC
		`)
		if err != nil {
			return err
		}
		defer irows.Close()

		for irows.Next() {
			var (
				qid string
				it  LineItem
			)
			if err := irows.Scan(&qid, &it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
				return err
			}
			if i, ok := idx[qid]; ok {
				out[i].Items = append(out[i].Items, it)
			}
		}
		return irows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Quote, bool, error) {
	var q Quote

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `
			SELECT id, client, notes, total, created_at
			FROM quotes
			WHERE id = $1
		`, id).Scan(&q.ID, &q.Client, &q.Notes, &q.Total, &q.CreatedAt)
		if err != nil {
			return err
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT id, product_id, name, quantity, price, subtotal
			FROM quote_items
			WHERE quote_id = $1
			ORDER BY pos ASC
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		q.Items = make([]LineItem, 0, 8)
		for rows.Next() {
			var it LineItem
			if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
				return err
			}
			q.Items = append(q.Items, it)
		}
		return rows.Err()
	})

	if err == sql.ErrNoRows {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}
	return q, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
