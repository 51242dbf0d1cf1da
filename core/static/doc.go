// Package static serves embedded assets.
//
//	//go:embed assets
//	var assets embed.FS
//
//	r.Mount("/static", static.FS(assets,
//		static.WithSubFS("assets"),
//		static.WithStripPrefix("/static"),
//		static.WithMaxAge(time.Hour),
//	))
//	r.Get("/favicon.ico", static.File[*router.Context](assetsRoot, "favicon.ico"))
//
// Directory listings are never served.
package static
