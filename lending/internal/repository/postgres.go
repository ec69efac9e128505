package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

var (
	_ Store = (*postgres)(nil)
	_ Tx    = (*postgresTx)(nil)
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// pgxPool is satisfied by *pgxpool.Pool and pgxmock.PgxPoolIface.
type pgxPool interface {
	dbtx
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type queries struct {
	db  dbtx
	log *zap.Logger
}

type postgres struct {
	queries
	pool pgxPool
}

type postgresTx struct {
	queries
}

func NewPostgres(db pgxPool, log *zap.Logger) *postgres {
	l := log.Named("repo")
	return &postgres{
		queries: queries{db: db, log: l},
		pool:    db,
	}
}

func (r *postgres) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapErr("begin", err)
	}
	if err := fn(ctx, &postgresTx{queries: queries{db: tx, log: r.log}}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("rollback", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr("commit", err)
	}
	return nil
}

func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == activeReservationIndex:
			return errs.ErrAlreadyReserved
		case pgErr.Code == pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrAlreadyExists, pgErr.ConstraintName)
		case pgErr.Code == pgerrcode.CheckViolation && pgErr.ConstraintName == availableCopiesCheck:
			return errs.ErrNoCopyAvailable
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return errors.Wrap(errs.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return errs.Storage(op, err)
}

func collectOne[T any](ctx context.Context, db dbtx, op string, query string, args ...any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, mapErr(op, err)
	}
	defer rows.Close()

	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapErr(op, err)
	}
	return v, nil
}

func collectAll[T any](ctx context.Context, db dbtx, op string, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapErr(op, err)
	}
	return items, nil
}

func (q *queries) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return collectOne[model.Reservation](ctx, q.db, "GetReservation", query, args...)
}

func (q *queries) GetWork(ctx context.Context, id int64) (model.Work, error) {
	query, args, err := qb.Select("id", "title", "author", "total_copies", "available_copies", "created_at").
		From(worksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Work{}, err
	}
	return collectOne[model.Work](ctx, q.db, "GetWork", query, args...)
}

var patronColumns = []string{
	"id", "external_id", "document_number", "first_name", "last_name", "phone", "privileged", "registered_at",
}

func (q *queries) GetPatron(ctx context.Context, id int64) (model.Patron, error) {
	query, args, err := qb.Select(patronColumns...).
		From(patronsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Patron{}, err
	}
	return collectOne[model.Patron](ctx, q.db, "GetPatron", query, args...)
}

func (q *queries) GetPatronByExternalID(ctx context.Context, externalID string) (model.Patron, error) {
	query, args, err := qb.Select(patronColumns...).
		From(patronsTableName).
		Where(sq.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return model.Patron{}, err
	}
	return collectOne[model.Patron](ctx, q.db, "GetPatronByExternalID", query, args...)
}

func (q *queries) HasActiveReservation(ctx context.Context, patronID int64) (bool, error) {
	const query = `
	select exists(
		select 1 from reservations
		where patron_id = $1 and status in ('booked', 'taken')
	)`
	rows, err := q.db.Query(ctx, query, patronID)
	if err != nil {
		return false, mapErr("HasActiveReservation", err)
	}
	has, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, mapErr("HasActiveReservation", err)
	}
	return has, nil
}

func (q *queries) GetActiveReservation(ctx context.Context, patronID int64) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"patron_id": patronID, "status": []model.Status{model.StatusBooked, model.StatusTaken}}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return collectOne[model.Reservation](ctx, q.db, "GetActiveReservation", query, args...)
}

type kindCount struct {
	Kind  model.ViolationKind `db:"kind"`
	Count int                 `db:"cnt"`
}

func (q *queries) CountActiveViolations(ctx context.Context, patronID int64) (map[model.ViolationKind]int, error) {
	query, args, err := qb.Select("kind", "count(*) as cnt").
		From(violationsTableName).
		Where(sq.Eq{"patron_id": patronID, "active": true}).
		GroupBy("kind").
		ToSql()
	if err != nil {
		return nil, err
	}
	items, err := collectAll[kindCount](ctx, q.db, "CountActiveViolations", query, args...)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ViolationKind]int, len(items))
	for _, it := range items {
		counts[it.Kind] = it.Count
	}
	return counts, nil
}

// DecrementAvailable checks and writes in one statement so two racing
// transactions cannot both take the last copy.
func (t *postgresTx) DecrementAvailable(ctx context.Context, workID int64) error {
	const q = `
update works
    set available_copies = available_copies - 1
where id = $1 and available_copies > 0`
	tag, err := t.db.Exec(ctx, q, workID)
	if err != nil {
		return mapErr("DecrementAvailable", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := t.GetWork(ctx, workID); err != nil {
			return err
		}
		return errs.ErrNoCopyAvailable
	}
	return nil
}

func (t *postgresTx) IncrementAvailable(ctx context.Context, workID int64) error {
	const q = `
update works
    set available_copies = available_copies + 1
where id = $1 and available_copies < total_copies`
	tag, err := t.db.Exec(ctx, q, workID)
	if err != nil {
		return mapErr("IncrementAvailable", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := t.GetWork(ctx, workID); err != nil {
			return err
		}
		return errs.Storage("IncrementAvailable", fmt.Errorf("work %d: available copies already at total", workID))
	}
	return nil
}

func (t *postgresTx) AdjustCopies(ctx context.Context, workID int64, delta int) (model.Work, error) {
	const q = `
update works
    set total_copies = total_copies + @delta,
        available_copies = available_copies + @delta
where id = @work_id
returning id, title, author, total_copies, available_copies, created_at`
	return collectOne[model.Work](ctx, t.db, "AdjustCopies", q, pgx.NamedArgs{"work_id": workID, "delta": delta})
}

func (t *postgresTx) InsertWork(ctx context.Context, w model.Work) (model.Work, error) {
	query, args, err := qb.Insert(worksTableName).
		Columns("title", "author", "total_copies", "available_copies", "created_at").
		Values(w.Title, w.Author, w.TotalCopies, w.AvailableCopies, w.CreatedAt).
		Suffix("returning id, title, author, total_copies, available_copies, created_at").
		ToSql()
	if err != nil {
		return model.Work{}, err
	}
	return collectOne[model.Work](ctx, t.db, "InsertWork", query, args...)
}

func (t *postgresTx) InsertPatron(ctx context.Context, p model.Patron) (model.Patron, error) {
	query, args, err := qb.Insert(patronsTableName).
		Columns("external_id", "document_number", "first_name", "last_name", "phone", "privileged", "registered_at").
		Values(p.ExternalID, p.DocumentNumber, p.FirstName, p.LastName, p.Phone, p.Privileged, p.RegisteredAt).
		Suffix("returning " + columnList(patronColumns)).
		ToSql()
	if err != nil {
		return model.Patron{}, err
	}
	return collectOne[model.Patron](ctx, t.db, "InsertPatron", query, args...)
}

func (t *postgresTx) SetPrivileged(ctx context.Context, patronID int64, privileged bool) (model.Patron, error) {
	query, args, err := qb.Update(patronsTableName).
		Set("privileged", privileged).
		Where(sq.Eq{"id": patronID}).
		Suffix("returning " + columnList(patronColumns)).
		ToSql()
	if err != nil {
		return model.Patron{}, err
	}
	return collectOne[model.Patron](ctx, t.db, "SetPrivileged", query, args...)
}

func (t *postgresTx) InsertReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationsTableName).
		Columns("patron_id", "work_id", "status", "created_at", "pickup_deadline", "loan_duration_days", "reminder_sent").
		Values(r.PatronID, r.WorkID, r.Status, r.CreatedAt, r.PickupDeadline, r.LoanDurationDays, r.ReminderSent).
		Suffix("returning " + columnList(reservationColumns)).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	res, err := collectOne[model.Reservation](ctx, t.db, "InsertReservation", query, args...)
	if err != nil {
		t.log.Debug("InsertReservation", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return model.Reservation{}, err
	}
	return res, nil
}

func (t *postgresTx) UpdateReservation(ctx context.Context, r model.Reservation, expected model.Status) error {
	query, args, err := qb.Update(reservationsTableName).
		SetMap(map[string]any{
			"status":        r.Status,
			"taken_at":      r.TakenAt,
			"due_at":        r.DueAt,
			"returned_at":   r.ReturnedAt,
			"cancelled_at":  r.CancelledAt,
			"cancelled_by":  r.CancelledBy,
			"reminder_sent": r.ReminderSent,
		}).
		Where(sq.Eq{"id": r.ID, "status": expected}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := t.db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr("UpdateReservation", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	current, err := t.GetReservation(ctx, r.ID)
	if err != nil {
		return err
	}
	return &errs.StaleStateError{
		ReservationID: r.ID,
		Expected:      string(expected),
		Actual:        string(current.Status),
	}
}

func (t *postgresTx) ClaimReminder(ctx context.Context, reservationID int64) (bool, error) {
	const q = `
update reservations
    set reminder_sent = true
where id = $1 and status = 'taken' and reminder_sent = false`
	tag, err := t.db.Exec(ctx, q, reservationID)
	if err != nil {
		return false, mapErr("ClaimReminder", err)
	}
	return tag.RowsAffected() == 1, nil
}

var violationColumns = []string{"id", "patron_id", "reservation_id", "kind", "created_at", "active"}

func (t *postgresTx) InsertViolation(ctx context.Context, v model.Violation) (model.Violation, error) {
	query, args, err := qb.Insert(violationsTableName).
		Columns("patron_id", "reservation_id", "kind", "created_at", "active").
		Values(v.PatronID, v.ReservationID, v.Kind, v.CreatedAt, true).
		Suffix("returning " + columnList(violationColumns)).
		ToSql()
	if err != nil {
		return model.Violation{}, err
	}
	return collectOne[model.Violation](ctx, t.db, "InsertViolation", query, args...)
}

func (t *postgresTx) DeactivateViolations(ctx context.Context, patronID int64) (int, error) {
	query, args, err := qb.Update(violationsTableName).
		Set("active", false).
		Where(sq.Eq{"patron_id": patronID, "active": true}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := t.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapErr("DeactivateViolations", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *postgres) ListWorks(ctx context.Context, showAll bool, page, size int) (model.ListWorks, error) {
	q := qb.Select("id", "title", "author", "total_copies", "available_copies", "created_at").
		From(worksTableName).
		OrderBy("id")
	if !showAll {
		q = q.Where(sq.Gt{"available_copies": 0})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListWorks{}, err
	}
	r.log.Debug("ListWorks", zap.String("query", query), zap.Any("args", args))

	works, err := collectAll[model.Work](ctx, r.db, "ListWorks", query, args...)
	if err != nil {
		return model.ListWorks{}, err
	}
	return model.ListWorks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(works),
		},
		Items: works,
	}, nil
}

func (r *postgres) ListPatrons(ctx context.Context, page, size int) (model.ListPatrons, error) {
	q := qb.Select(patronColumns...).
		From(patronsTableName).
		OrderBy("id")
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListPatrons{}, err
	}

	patrons, err := collectAll[model.Patron](ctx, r.db, "ListPatrons", query, args...)
	if err != nil {
		return model.ListPatrons{}, err
	}
	return model.ListPatrons{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(patrons),
		},
		Items: patrons,
	}, nil
}

func (r *postgres) ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error) {
	q := qb.Select(reservationColumns...).
		From(reservationsTableName).
		OrderBy("created_at desc", "id desc")
	if f.PatronID != nil {
		q = q.Where(sq.Eq{"patron_id": *f.PatronID})
	}
	if f.WorkID != nil {
		q = q.Where(sq.Eq{"work_id": *f.WorkID})
	}
	if f.Status != nil {
		q = q.Where(sq.Eq{"status": *f.Status})
	}
	if f.Page != 0 && f.Size != 0 {
		q = q.Limit(uint64(f.Size)).Offset(uint64((f.Page - 1) * f.Size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListReservations{}, err
	}

	items, err := collectAll[model.Reservation](ctx, r.db, "ListReservations", query, args...)
	if err != nil {
		return model.ListReservations{}, err
	}
	return model.ListReservations{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}

func (r *postgres) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	q := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"status": model.StatusBooked}).
		Where(sq.Lt{"pickup_deadline": now}).
		OrderBy("pickup_deadline")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Reservation](ctx, r.db, "ListExpired", query, args...)
}

func (r *postgres) ListDueForReminder(ctx context.Context, from, to time.Time, limit int) ([]model.Reservation, error) {
	q := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"status": model.StatusTaken, "reminder_sent": false}).
		Where(sq.GtOrEq{"due_at": from}).
		Where(sq.Lt{"due_at": to}).
		OrderBy("due_at")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Reservation](ctx, r.db, "ListDueForReminder", query, args...)
}

type bannedRow struct {
	PatronID int64 `db:"patron_id"`
	NoPickup int   `db:"no_pickup"`
	NoReturn int   `db:"no_return"`
}

func (r *postgres) ListBanned(ctx context.Context, threshold int) ([]model.ViolationSummary, error) {
	const q = `
	select patron_id,
	       count(*) filter ( where kind = 'no_pickup' ) as no_pickup,
	       count(*) filter ( where kind = 'no_return' ) as no_return
	from violations
	where active
	group by patron_id
	having count(*) >= @threshold
	order by patron_id`
	rows, err := collectAll[bannedRow](ctx, r.db, "ListBanned", q, pgx.NamedArgs{"threshold": threshold})
	if err != nil {
		return nil, err
	}
	out := make([]model.ViolationSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.NewViolationSummary(row.PatronID, map[model.ViolationKind]int{
			model.ViolationNoPickup: row.NoPickup,
			model.ViolationNoReturn: row.NoReturn,
		}, threshold))
	}
	return out, nil
}

type totalsRow struct {
	TotalWorks            int `db:"total_works"`
	TotalPatrons          int `db:"total_patrons"`
	ActiveReservations    int `db:"active_reservations"`
	CompletedReservations int `db:"completed_reservations"`
}

func (r *postgres) Stats(ctx context.Context) (model.Stats, error) {
	const totalsQ = `
	select (select count(*) from works)                                           as total_works,
	       (select count(*) from patrons)                                         as total_patrons,
	       (select count(*) from reservations where status in ('booked', 'taken')) as active_reservations,
	       (select count(*) from reservations where status = 'returned')          as completed_reservations`
	totals, err := collectOne[totalsRow](ctx, r.db, "Stats", totalsQ)
	if err != nil {
		return model.Stats{}, err
	}

	const topWorksQ = `
	select w.id as work_id, w.title, w.author, count(r.id) as reservations
	from works w
	join reservations r on r.work_id = w.id
	group by w.id
	order by reservations desc, w.id
	limit @limit`
	topWorks, err := collectAll[model.WorkStat](ctx, r.db, "Stats", topWorksQ, pgx.NamedArgs{"limit": topWorksLimit})
	if err != nil {
		return model.Stats{}, err
	}

	const topPatronsQ = `
	select p.id as patron_id, p.first_name, p.last_name, count(r.id) as reservations
	from patrons p
	join reservations r on r.patron_id = p.id
	group by p.id
	order by reservations desc, p.id
	limit @limit`
	topPatrons, err := collectAll[model.PatronStat](ctx, r.db, "Stats", topPatronsQ, pgx.NamedArgs{"limit": topPatronsLimit})
	if err != nil {
		return model.Stats{}, err
	}

	return model.Stats{
		TotalWorks:            totals.TotalWorks,
		TotalPatrons:          totals.TotalPatrons,
		ActiveReservations:    totals.ActiveReservations,
		CompletedReservations: totals.CompletedReservations,
		TopWorks:              topWorks,
		TopPatrons:            topPatrons,
	}, nil
}

func columnList(cols []string) string { return strings.Join(cols, ", ") }
