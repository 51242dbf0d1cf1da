package postgres

import (
	sq "github.com/Masterminds/squirrel"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	sessionTable  = "pc_session"
	categoryTable = "pc_category"
	kittyTable    = "pc_kitty"
)
