// Package server runs an http.Handler with timeouts and graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
package server
