// Package mysql is a database adapter for MySQL.
package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	ms "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// adapter holds MySQL connection data.
type adapter struct {
	db      *sqlx.DB
	dbName  string
	version int
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/roomery?parseTime=true"
	defaultDatabase = "roomery"

	dbVersion = 100

	adapterName = "mysql"
)

type configType struct {
	DSN    string `json:"dsn,omitempty"`
	DBName string `json:"database,omitempty"`
}

// Open initializes the MySQL connection pool.
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.db != nil {
		return errors.New("mysql adapter is already connected")
	}

	var err error
	var config configType

	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("mysql adapter failed to parse config: " + err.Error())
	}

	dsn := config.DSN
	if dsn == "" {
		dsn = defaultDSN
	}

	a.dbName = config.DBName
	if a.dbName == "" {
		a.dbName = defaultDatabase
	}

	a.db, err = sqlx.Open("mysql", dsn)
	if err != nil {
		return err
	}

	// sql.Open does not open the network connection.
	// Force network connection here.
	err = a.db.Ping()
	if err != nil {
		return err
	}

	a.version = -1

	return nil
}

// Close closes the underlying database connection.
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// GetName returns string that adapter uses to register itself with store.
func (a *adapter) GetName() string {
	return adapterName
}

// Read current database version.
func (a *adapter) getDbVersion() (int, error) {
	var vers int
	err := a.db.Get(&vers, "SELECT `value` FROM kvmeta WHERE `key`='version'")
	if err != nil {
		return -1, err
	}
	a.version = vers

	return a.version, nil
}

// CheckDbVersion checks whether the actual DB version matches the expected version of this adapter.
func (a *adapter) CheckDbVersion() error {
	if a.version <= 0 {
		a.getDbVersion()
	}

	if a.version != dbVersion {
		return errors.New("invalid database version " + strconv.Itoa(a.version) +
			". Expected " + strconv.Itoa(dbVersion))
	}

	return nil
}

// CreateDb initializes the storage.
func (a *adapter) CreateDb(reset bool) error {
	var err error
	var tx *sql.Tx

	if tx, err = a.db.Begin(); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if reset {
		if _, err = tx.Exec("DROP DATABASE IF EXISTS " + a.dbName); err != nil {
			return err
		}
	}

	if _, err = tx.Exec("CREATE DATABASE " + a.dbName +
		" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		return err
	}

	if _, err = tx.Exec("USE " + a.dbName); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE kvmeta(` +
			"`key` CHAR(32)," +
			"`value` TEXT," +
			"PRIMARY KEY(`key`)" +
			`)`); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO kvmeta(`key`, `value`) VALUES('version', '" +
		strconv.Itoa(dbVersion) + "')"); err != nil {
		return err
	}

	// Rooms. The primary key enforces room id uniqueness.
	if _, err = tx.Exec(
		`CREATE TABLE rooms(
			id 			VARCHAR(64) NOT NULL,
			public 		TINYINT NOT NULL DEFAULT 0,
			createdby 	VARCHAR(64) NOT NULL,
			createdat 	DATETIME(3) NOT NULL,
			PRIMARY KEY(id)
		)`); err != nil {
		return err
	}

	// Membership records, one row per (room, user) pair.
	if _, err = tx.Exec(
		`CREATE TABLE members(
			roomid 		VARCHAR(64) NOT NULL,
			userid 		VARCHAR(64) NOT NULL,
			membership 	VARCHAR(16) NOT NULL,
			content 	JSON,
			updatedat 	DATETIME(3) NOT NULL,
			PRIMARY KEY(roomid, userid)
		)`); err != nil {
		return err
	}

	// Messages.
	if _, err = tx.Exec(
		`CREATE TABLE messages(
			roomid 		VARCHAR(64) NOT NULL,
			msgid 		VARCHAR(64) NOT NULL,
			author		VARCHAR(64) NOT NULL,
			content 	JSON,
			createdat 	DATETIME(3) NOT NULL,
			PRIMARY KEY(roomid, author, msgid)
		)`); err != nil {
		return err
	}

	// Path-addressed room data.
	if _, err = tx.Exec(
		`CREATE TABLE pathdata(
			path 		VARCHAR(255) NOT NULL,
			roomid 		VARCHAR(64) NOT NULL,
			content 	JSON,
			updatedat 	DATETIME(3) NOT NULL,
			PRIMARY KEY(path)
		)`); err != nil {
		return err
	}

	return tx.Commit()
}

// RoomCreate inserts a new room. The insert and the uniqueness check are
// one atomic statement.
func (a *adapter) RoomCreate(room *t.Room) error {
	_, err := a.db.Exec("INSERT INTO rooms(id,public,createdby,createdat) VALUES(?,?,?,?)",
		room.Id, room.Public, room.CreatedBy, room.CreatedAt)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// RoomGet loads a single room by id.
func (a *adapter) RoomGet(roomId string) (*t.Room, error) {
	var row struct {
		Id        string
		Public    bool
		Createdby string
		Createdat time.Time
	}
	err := a.db.Get(&row, "SELECT id,public,createdby,createdat FROM rooms WHERE id=?", roomId)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t.Room{
		Id:        row.Id,
		Public:    row.Public,
		CreatedBy: row.Createdby,
		CreatedAt: row.Createdat,
	}, nil
}

// MemberGet reads the current membership record of a user in a room.
func (a *adapter) MemberGet(roomId, userId string) (*t.Member, error) {
	var row struct {
		Roomid     string
		Userid     string
		Membership string
		Content    []byte
		Updatedat  time.Time
	}
	err := a.db.Get(&row,
		"SELECT roomid,userid,membership,content,updatedat FROM members WHERE roomid=? AND userid=?",
		roomId, userId)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t.Member{
		RoomId:     row.Roomid,
		UserId:     row.Userid,
		Membership: t.ParseMembership(row.Membership),
		Content:    fromJSON(row.Content),
		UpdatedAt:  row.Updatedat,
	}, nil
}

// MemberUpsert writes a membership record overwriting the previous one.
func (a *adapter) MemberUpsert(member *t.Member) error {
	_, err := a.db.Exec(
		`INSERT INTO members(roomid,userid,membership,content,updatedat) VALUES(?,?,?,?,?)
			ON DUPLICATE KEY UPDATE membership=VALUES(membership),content=VALUES(content),updatedat=VALUES(updatedat)`,
		member.RoomId, member.UserId, member.Membership.String(), toJSON(member.Content), member.UpdatedAt)
	return err
}

// MessageSave stores a new message.
func (a *adapter) MessageSave(msg *t.Message) error {
	_, err := a.db.Exec("INSERT INTO messages(roomid,msgid,author,content,createdat) VALUES(?,?,?,?,?)",
		msg.RoomId, msg.MsgId, msg.From, toJSON(msg.Content), msg.CreatedAt)
	return err
}

// MessageGet loads a single message.
func (a *adapter) MessageGet(roomId, userId, msgId string) (*t.Message, error) {
	var row struct {
		Roomid    string
		Msgid     string
		Author    string
		Content   []byte
		Createdat time.Time
	}
	err := a.db.Get(&row,
		"SELECT roomid,msgid,author,content,createdat FROM messages WHERE roomid=? AND author=? AND msgid=?",
		roomId, userId, msgId)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t.Message{
		RoomId:    row.Roomid,
		MsgId:     row.Msgid,
		From:      row.Author,
		Content:   fromJSON(row.Content),
		CreatedAt: row.Createdat,
	}, nil
}

// PathDataGet reads room data stored under a path.
func (a *adapter) PathDataGet(path string) (*t.PathData, error) {
	var row struct {
		Path      string
		Roomid    string
		Content   []byte
		Updatedat time.Time
	}
	err := a.db.Get(&row, "SELECT path,roomid,content,updatedat FROM pathdata WHERE path=?", path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t.PathData{
		RoomId:    row.Roomid,
		Path:      row.Path,
		Content:   fromJSON(row.Content),
		UpdatedAt: row.Updatedat,
	}, nil
}

// PathDataUpsert writes room data under a path, overwriting wholesale.
func (a *adapter) PathDataUpsert(pd *t.PathData) error {
	_, err := a.db.Exec(
		`INSERT INTO pathdata(path,roomid,content,updatedat) VALUES(?,?,?,?)
			ON DUPLICATE KEY UPDATE roomid=VALUES(roomid),content=VALUES(content),updatedat=VALUES(updatedat)`,
		pd.Path, pd.RoomId, toJSON(pd.Content), pd.UpdatedAt)
	return err
}

// isDupe checks for a unique constraint violation (MySQL error 1062).
func isDupe(err error) bool {
	if err == nil {
		return false
	}
	myerr, ok := err.(*ms.MySQLError)
	return ok && myerr.Number == 1062
}

func toJSON(src interface{}) []byte {
	if src == nil {
		return nil
	}
	jval, _ := json.Marshal(src)
	return jval
}

func fromJSON(src []byte) interface{} {
	if len(src) == 0 {
		return nil
	}
	var out interface{}
	json.Unmarshal(src, &out)
	return out
}

func init() {
	store.RegisterAdapter(&adapter{})
}
