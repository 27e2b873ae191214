// Package db ties together all database adapters compiled into the server.
package db

import (
	_ "github.com/roomery/chat/server/db/mongodb"
	_ "github.com/roomery/chat/server/db/mysql"
	_ "github.com/roomery/chat/server/db/postgres"
	_ "github.com/roomery/chat/server/db/rethinkdb"
)
