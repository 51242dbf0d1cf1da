// Package session manages anonymous visitor sessions identified by random
// 64-bit ids.
//
// A Manager generates ids from crypto/rand, stamps the creation time and
// persists records through an injected Store. MemoryStore is the in-process
// implementation; PostgreSQL and Redis stores live under internal/store.
//
//	mgr := session.NewManager(store)
//	sess, err := mgr.Create(ctx, nil)
//	if errors.Is(err, session.ErrStorage) {
//		// backing store failed
//	}
//
// Resolving a request yields a State, which is either Active (found by its
// cookie) or Fresh (created for this request).
package session
