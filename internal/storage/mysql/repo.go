// Package mysql implements domain.Store on MySQL 8 (InnoDB).
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"hotel_backoffice/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct {
	db  *sql.DB
	q   querier
	now func() time.Time
}

var _ domain.Store = (*Repo)(nil)

func New(db *sql.DB) *Repo {
	return &Repo{db: db, q: db, now: func() time.Time { return time.Now().UTC() }}
}

// InTx runs fn in a SERIALIZABLE transaction. fn must only use the Repos it
// is given.
func (r *Repo) InTx(ctx context.Context, fn func(tx domain.Repos) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return wrap("begin tx", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(&Repo{db: r.db, q: tx, now: r.now}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return wrap("commit tx", tx.Commit())
}

// MySQL server error numbers mapped onto domain errors.
const (
	errDupEntry     = 1062
	errRowIsRef     = 1451
	errRowIsRef2    = 1217
	errNoRefRow     = 1452
	errLockWait     = 1205
	errLockDeadlock = 1213
)

// wrap classifies a driver error. Domain errors and nil pass through.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry:
			return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeDuplicate, Msg: dupMessage(me.Message), Err: err}
		case errRowIsRef, errRowIsRef2:
			return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeInUse, Msg: op + ": row is still referenced", Err: err}
		case errNoRefRow:
			return &domain.Error{Kind: domain.KindNotFound, Code: domain.CodeNotFound, Msg: op + ": referenced row does not exist", Err: err}
		case errLockWait, errLockDeadlock:
			return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeBusy, Msg: op + ": concurrent update, retry", Err: err}
		}
	}
	return domain.Persistence(op, err)
}

// dupMessage turns "Duplicate entry 'x' for key 'rooms.uq_rooms_number'"
// into a short message naming the column.
func dupMessage(msg string) string {
	switch {
	case strings.Contains(msg, "uq_rooms_number"):
		return "room number already exists"
	case strings.Contains(msg, "uq_room_types_name"):
		return "room type already exists"
	case strings.Contains(msg, "uq_customers_email"):
		return "email already registered"
	case strings.Contains(msg, "uq_customers_phone"):
		return "phone already registered"
	case strings.Contains(msg, "uq_bookings_reference"):
		return "booking reference already exists"
	case strings.Contains(msg, "uq_payments_txn"):
		return "transaction already exists"
	}
	return "duplicate entry"
}

// ---- argument helpers ----

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func valDate(t time.Time) string { return domain.DateOf(t).Format(domain.DateLayout) }

func valDatePtr(p *time.Time) any {
	if p == nil {
		return nil
	}
	return valDate(*p)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// likeArg wraps s for a LIKE substring match, escaping wildcards.
func likeArg(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// where accumulates AND-ed conditions and their args.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) in(col string, vals []string) {
	if len(vals) == 0 {
		return
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(vals)), ",")
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	w.add(col+" IN ("+ph+")", args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page renders LIMIT/OFFSET; limit <= 0 means unbounded.
func page(skip, limit int) string {
	switch {
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, max(skip, 0))
	case skip > 0:
		return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", skip)
	}
	return ""
}

func (r *Repo) count(ctx context.Context, table string, w *where) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+w.String(), w.args...).Scan(&n); err != nil {
		return 0, wrap("count "+table, err)
	}
	return n, nil
}

func (r *Repo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// mustAffect maps an UPDATE/DELETE that matched nothing to NotFound.
func (r *Repo) mustAffect(ctx context.Context, entity string, id int64, res sql.Result) error {
	return r.mustAffectIn(ctx, entity+"s", entity, id, res)
}

func (r *Repo) mustAffectIn(ctx context.Context, table, entity string, id int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("rows affected", err)
	}
	if n > 0 {
		return nil
	}
	// MySQL reports 0 for an UPDATE that changed nothing; tell that apart
	// from a missing row.
	ok, err := r.exists(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return wrap("exists "+entity, err)
	}
	if !ok {
		return domain.NotFound(entity, id)
	}
	return nil
}
