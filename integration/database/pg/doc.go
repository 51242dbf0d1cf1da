// Package pg manages PostgreSQL connectivity for the gallery.
//
// Connect builds a pgx connection pool from Config, retrying with a
// doubling interval until a ping succeeds. OpenDB exposes the pool through
// database/sql for stores and migrations, and Migrate applies goose
// migrations from an fs.FS, usually an embedded directory:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	db := pg.OpenDB(pool)
//	if err := pg.Migrate(ctx, db, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// InTx runs a function in a transaction carried by the context; stores call
// Conn to pick up that transaction when present.
//
// Error classifiers (IsNotFoundError, IsDuplicateKeyError,
// IsForeignKeyViolationError, IsTxClosedError) map driver errors to the
// conditions callers branch on.
package pg
