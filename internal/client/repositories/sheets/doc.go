// Package sheets is the durable cache of cheat sheets on the client.
//
// Each row stores the full sheet as JSON plus a pending flag. A pending row
// holds local changes the remote store has not confirmed yet; non-pending rows
// mirror the last canonical copy and may be pruned by a reconcile.
//
// The SQLite implementation works over dbx.DBTX so it can be bound to a
// transaction:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := sheets.NewSQLiteRepository(tx)
//	    if err := repo.Clear(ctx); err != nil {
//	        return err
//	    }
//	    return repo.Put(ctx, sheets.Record{Sheet: s})
//	})
package sheets
