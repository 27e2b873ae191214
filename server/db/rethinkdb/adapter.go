// Package rethinkdb is a database adapter for RethinkDB.
package rethinkdb

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	rdb "gopkg.in/rethinkdb/rethinkdb-go.v6"

	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// adapter holds RethinkDB connection data.
type adapter struct {
	conn    *rdb.Session
	dbName  string
	version int
}

const (
	defaultHost     = "localhost:28015"
	defaultDatabase = "roomery"

	dbVersion = 100

	adapterName = "rethinkdb"
)

// See https://godoc.org/github.com/rethinkdb/rethinkdb-go#ConnectOpts for explanations.
type configType struct {
	Database            string      `json:"database,omitempty"`
	Addresses           interface{} `json:"addresses,omitempty"`
	AuthKey             string      `json:"authkey,omitempty"`
	Timeout             int         `json:"timeout,omitempty"`
	WriteTimeout        int         `json:"write_timeout,omitempty"`
	ReadTimeout         int         `json:"read_timeout,omitempty"`
	MaxIdle             int         `json:"max_idle,omitempty"`
	MaxOpen             int         `json:"max_open,omitempty"`
	DiscoverHosts       bool        `json:"discover_hosts,omitempty"`
	NodeRefreshInterval int         `json:"node_refresh_interval,omitempty"`
}

// Open initializes rethinkdb session.
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("rethinkdb adapter is already connected")
	}

	var err error
	var config configType

	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("rethinkdb adapter failed to parse config: " + err.Error())
	}

	var opts rdb.ConnectOpts

	if config.Addresses == nil {
		opts.Address = defaultHost
	} else if host, ok := config.Addresses.(string); ok {
		opts.Address = host
	} else if ihosts, ok := config.Addresses.([]interface{}); ok && len(ihosts) > 0 {
		hosts := make([]string, len(ihosts))
		for i, ih := range ihosts {
			h, ok := ih.(string)
			if !ok || h == "" {
				return errors.New("rethinkdb adapter invalid config.Addresses value")
			}
			hosts[i] = h
		}
		opts.Addresses = hosts
	} else {
		return errors.New("rethinkdb adapter failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	opts.Database = a.dbName
	opts.AuthKey = config.AuthKey
	opts.Timeout = time.Duration(config.Timeout) * time.Second
	opts.WriteTimeout = time.Duration(config.WriteTimeout) * time.Second
	opts.ReadTimeout = time.Duration(config.ReadTimeout) * time.Second
	opts.MaxIdle = config.MaxIdle
	opts.MaxOpen = config.MaxOpen
	opts.DiscoverHosts = config.DiscoverHosts
	opts.NodeRefreshInterval = time.Duration(config.NodeRefreshInterval) * time.Second

	a.conn, err = rdb.Connect(opts)
	if err != nil {
		return err
	}

	a.version = -1

	return nil
}

// Close closes the underlying database connection.
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		// Close will wait for all outstanding requests to finish.
		err = a.conn.Close()
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetName returns string that adapter uses to register itself with store.
func (a *adapter) GetName() string {
	return adapterName
}

// Read current database version.
func (a *adapter) getDbVersion() (int, error) {
	cursor, err := rdb.DB(a.dbName).Table("kvmeta").Get("version").Pluck("value").Run(a.conn)
	if err != nil {
		return -1, err
	}
	defer cursor.Close()

	var vers map[string]int
	if err = cursor.One(&vers); err != nil {
		return -1, err
	}
	a.version = vers["value"]

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

// CreateDb initializes the storage. If reset is true, the database is first deleted losing all the data.
func (a *adapter) CreateDb(reset bool) error {
	if reset {
		rdb.DBDrop(a.dbName).RunWrite(a.conn)
	}

	if _, err := rdb.DBCreate(a.dbName).RunWrite(a.conn); err != nil {
		return err
	}

	if _, err := rdb.DB(a.dbName).TableCreate("kvmeta", rdb.TableCreateOpts{PrimaryKey: "key"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("kvmeta").
		Insert(map[string]interface{}{"key": "version", "value": dbVersion}).RunWrite(a.conn); err != nil {
		return err
	}

	// Rooms. Room id is the primary key, uniqueness comes for free.
	if _, err := rdb.DB(a.dbName).TableCreate("rooms", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Membership records. Primary key is "roomid:userid".
	if _, err := rdb.DB(a.dbName).TableCreate("members", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Messages. Primary key is "roomid:author:msgid".
	if _, err := rdb.DB(a.dbName).TableCreate("messages", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Path-addressed room data. The path is the primary key.
	if _, err := rdb.DB(a.dbName).TableCreate("pathdata", rdb.TableCreateOpts{PrimaryKey: "Path"}).RunWrite(a.conn); err != nil {
		return err
	}

	return nil
}

type roomDoc struct {
	Id        string
	Public    bool
	CreatedBy string
	CreatedAt time.Time
}

type memberDoc struct {
	Id         string
	RoomId     string
	UserId     string
	Membership string
	Content    interface{}
	UpdatedAt  time.Time
}

type messageDoc struct {
	Id        string
	RoomId    string
	MsgId     string
	Author    string
	Content   interface{}
	CreatedAt time.Time
}

type pathDataDoc struct {
	Path      string
	RoomId    string
	Content   interface{}
	UpdatedAt time.Time
}

func memberKey(roomId, userId string) string {
	return roomId + ":" + userId
}

func messageKey(roomId, author, msgId string) string {
	return roomId + ":" + author + ":" + msgId
}

// RoomCreate inserts a new room. Insert fails atomically when the id is taken.
func (a *adapter) RoomCreate(room *t.Room) error {
	_, err := rdb.DB(a.dbName).Table("rooms").
		Insert(&roomDoc{
			Id:        room.Id,
			Public:    room.Public,
			CreatedBy: room.CreatedBy,
			CreatedAt: room.CreatedAt,
		}, rdb.InsertOpts{Conflict: "error"}).RunWrite(a.conn)
	if err != nil && rdb.IsConflictErr(err) {
		return t.ErrDuplicate
	}
	return err
}

// RoomGet loads a single room by id.
func (a *adapter) RoomGet(roomId string) (*t.Room, error) {
	cursor, err := rdb.DB(a.dbName).Table("rooms").Get(roomId).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var doc roomDoc
	if err = cursor.One(&doc); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}

	return &t.Room{
		Id:        doc.Id,
		Public:    doc.Public,
		CreatedBy: doc.CreatedBy,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// MemberGet reads the current membership record of a user in a room.
func (a *adapter) MemberGet(roomId, userId string) (*t.Member, error) {
	cursor, err := rdb.DB(a.dbName).Table("members").Get(memberKey(roomId, userId)).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var doc memberDoc
	if err = cursor.One(&doc); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}

	return &t.Member{
		RoomId:     doc.RoomId,
		UserId:     doc.UserId,
		Membership: t.ParseMembership(doc.Membership),
		Content:    doc.Content,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

// MemberUpsert writes a membership record overwriting the previous one.
func (a *adapter) MemberUpsert(member *t.Member) error {
	_, err := rdb.DB(a.dbName).Table("members").
		Insert(&memberDoc{
			Id:         memberKey(member.RoomId, member.UserId),
			RoomId:     member.RoomId,
			UserId:     member.UserId,
			Membership: member.Membership.String(),
			Content:    member.Content,
			UpdatedAt:  member.UpdatedAt,
		}, rdb.InsertOpts{Conflict: "replace"}).RunWrite(a.conn)
	return err
}

// MessageSave stores a new message.
func (a *adapter) MessageSave(msg *t.Message) error {
	_, err := rdb.DB(a.dbName).Table("messages").
		Insert(&messageDoc{
			Id:        messageKey(msg.RoomId, msg.From, msg.MsgId),
			RoomId:    msg.RoomId,
			MsgId:     msg.MsgId,
			Author:    msg.From,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}).RunWrite(a.conn)
	return err
}

// MessageGet loads a single message.
func (a *adapter) MessageGet(roomId, userId, msgId string) (*t.Message, error) {
	cursor, err := rdb.DB(a.dbName).Table("messages").Get(messageKey(roomId, userId, msgId)).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var doc messageDoc
	if err = cursor.One(&doc); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}

	return &t.Message{
		RoomId:    doc.RoomId,
		MsgId:     doc.MsgId,
		From:      doc.Author,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// PathDataGet reads room data stored under a path.
func (a *adapter) PathDataGet(path string) (*t.PathData, error) {
	cursor, err := rdb.DB(a.dbName).Table("pathdata").Get(path).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var doc pathDataDoc
	if err = cursor.One(&doc); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}

	return &t.PathData{
		RoomId:    doc.RoomId,
		Path:      doc.Path,
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// PathDataUpsert writes room data under a path, overwriting wholesale.
func (a *adapter) PathDataUpsert(pd *t.PathData) error {
	_, err := rdb.DB(a.dbName).Table("pathdata").
		Insert(&pathDataDoc{
			Path:      pd.Path,
			RoomId:    pd.RoomId,
			Content:   pd.Content,
			UpdatedAt: pd.UpdatedAt,
		}, rdb.InsertOpts{Conflict: "replace"}).RunWrite(a.conn)
	return err
}

func init() {
	store.RegisterAdapter(&adapter{})
}
