// Package mongodb is a database adapter for MongoDB.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roomery/chat/server/store"
	t "github.com/roomery/chat/server/store/types"
)

// adapter holds MongoDB connection data.
type adapter struct {
	conn    *mdb.Client
	db      *mdb.Database
	dbName  string
	version int
	ctx     context.Context
}

const (
	defaultHost     = "localhost:27017"
	defaultDatabase = "roomery"

	dbVersion = 100

	adapterName = "mongodb"
)

// See https://godoc.org/go.mongodb.org/mongo-driver/mongo/options#ClientOptions for explanations.
type configType struct {
	Addresses      interface{} `json:"addresses,omitempty"`
	ConnectTimeout int         `json:"timeout,omitempty"`

	Database   string `json:"database,omitempty"`
	ReplicaSet string `json:"replica_set,omitempty"`

	AuthSource string `json:"auth_source,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Open initializes mongodb session.
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("mongodb adapter is already connected")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("mongodb adapter failed to parse config: " + err.Error())
	}

	var opts mdbopts.ClientOptions

	if config.Addresses == nil {
		opts.SetHosts([]string{defaultHost})
	} else if host, ok := config.Addresses.(string); ok {
		opts.SetHosts([]string{host})
	} else if ihosts, ok := config.Addresses.([]interface{}); ok && len(ihosts) > 0 {
		hosts := make([]string, len(ihosts))
		for i, ih := range ihosts {
			h, ok := ih.(string)
			if !ok || h == "" {
				return errors.New("mongodb adapter invalid config.Addresses value")
			}
			hosts[i] = h
		}
		opts.SetHosts(hosts)
	} else {
		return errors.New("mongodb adapter failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	if config.ReplicaSet != "" {
		opts.SetReplicaSet(config.ReplicaSet)
	}

	if config.Username != "" {
		if config.AuthSource == "" {
			config.AuthSource = "admin"
		}
		var passwordSet bool
		if config.Password != "" {
			passwordSet = true
		}
		opts.SetAuth(
			mdbopts.Credential{
				AuthMechanism: "SCRAM-SHA-256",
				AuthSource:    config.AuthSource,
				Username:      config.Username,
				Password:      config.Password,
				PasswordSet:   passwordSet,
			})
	}

	ctx := context.Background()
	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.ConnectTimeout)*time.Second)
		defer cancel()
	}

	a.ctx = context.Background()
	a.conn, err = mdb.Connect(ctx, &opts)
	if err != nil {
		return err
	}
	a.db = a.conn.Database(a.dbName)

	a.version = -1

	return nil
}

// Close the adapter.
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		err = a.conn.Disconnect(a.ctx)
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen checks if the adapter is ready for use.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetName returns the name of the adapter.
func (a *adapter) GetName() string {
	return adapterName
}

func (a *adapter) getDbVersion() (int, error) {
	var result struct {
		Value int
	}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}).Decode(&result); err != nil {
		if err == mdb.ErrNoDocuments {
			err = errors.New("database not initialized")
		}
		return -1, err
	}
	a.version = result.Value

	return a.version, nil
}

// CheckDbVersion checks if the actual database version matches adapter version.
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

// CreateDb creates the collections and indexes.
func (a *adapter) CreateDb(reset bool) error {
	if reset {
		if err := a.db.Drop(a.ctx); err != nil {
			return err
		}
	} else if a.isDbInitialized() {
		return errors.New("database already initialized")
	}

	indexes := []struct {
		Collection string
		IndexOpts  mdb.IndexModel
	}{
		{
			Collection: "members",
			IndexOpts: mdb.IndexModel{
				Keys:    b.D{{Key: "roomid", Value: 1}, {Key: "userid", Value: 1}},
				Options: mdbopts.Index().SetUnique(true),
			},
		},
		{
			Collection: "messages",
			IndexOpts: mdb.IndexModel{
				Keys:    b.D{{Key: "roomid", Value: 1}, {Key: "author", Value: 1}, {Key: "msgid", Value: 1}},
				Options: mdbopts.Index().SetUnique(true),
			},
		},
	}

	for _, idx := range indexes {
		if _, err := a.db.Collection(idx.Collection).Indexes().CreateOne(a.ctx, idx.IndexOpts); err != nil {
			return err
		}
	}

	if _, err := a.db.Collection("kvmeta").InsertOne(a.ctx,
		map[string]interface{}{"_id": "version", "value": dbVersion}); err != nil {
		return err
	}

	return nil
}

func (a *adapter) isDbInitialized() bool {
	var result map[string]int
	findOpts := mdbopts.FindOneOptions{Projection: b.M{"value": 1, "_id": 0}}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}, &findOpts).Decode(&result); err != nil {
		return false
	}
	return true
}

// roomDoc is how a room is stored in the collection. Room id is the document id.
type roomDoc struct {
	Id        string    `bson:"_id"`
	Public    bool      `bson:"public"`
	CreatedBy string    `bson:"createdby"`
	CreatedAt time.Time `bson:"createdat"`
}

type memberDoc struct {
	RoomId     string      `bson:"roomid"`
	UserId     string      `bson:"userid"`
	Membership string      `bson:"membership"`
	Content    interface{} `bson:"content,omitempty"`
	UpdatedAt  time.Time   `bson:"updatedat"`
}

type messageDoc struct {
	RoomId    string      `bson:"roomid"`
	MsgId     string      `bson:"msgid"`
	Author    string      `bson:"author"`
	Content   interface{} `bson:"content,omitempty"`
	CreatedAt time.Time   `bson:"createdat"`
}

type pathDataDoc struct {
	Path      string      `bson:"_id"`
	RoomId    string      `bson:"roomid"`
	Content   interface{} `bson:"content,omitempty"`
	UpdatedAt time.Time   `bson:"updatedat"`
}

// RoomCreate inserts a new room. The insert fails atomically when the id is taken.
func (a *adapter) RoomCreate(room *t.Room) error {
	_, err := a.db.Collection("rooms").InsertOne(a.ctx, &roomDoc{
		Id:        room.Id,
		Public:    room.Public,
		CreatedBy: room.CreatedBy,
		CreatedAt: room.CreatedAt,
	})
	if mdb.IsDuplicateKeyError(err) {
		return t.ErrDuplicate
	}
	return err
}

// RoomGet loads a single room by id.
func (a *adapter) RoomGet(roomId string) (*t.Room, error) {
	var doc roomDoc
	err := a.db.Collection("rooms").FindOne(a.ctx, b.M{"_id": roomId}).Decode(&doc)
	if err == mdb.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
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
	var doc memberDoc
	err := a.db.Collection("members").FindOne(a.ctx,
		b.M{"roomid": roomId, "userid": userId}).Decode(&doc)
	if err == mdb.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
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
	_, err := a.db.Collection("members").ReplaceOne(a.ctx,
		b.M{"roomid": member.RoomId, "userid": member.UserId},
		&memberDoc{
			RoomId:     member.RoomId,
			UserId:     member.UserId,
			Membership: member.Membership.String(),
			Content:    member.Content,
			UpdatedAt:  member.UpdatedAt,
		},
		mdbopts.Replace().SetUpsert(true))
	return err
}

// MessageSave stores a new message.
func (a *adapter) MessageSave(msg *t.Message) error {
	_, err := a.db.Collection("messages").InsertOne(a.ctx, &messageDoc{
		RoomId:    msg.RoomId,
		MsgId:     msg.MsgId,
		Author:    msg.From,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
	return err
}

// MessageGet loads a single message.
func (a *adapter) MessageGet(roomId, userId, msgId string) (*t.Message, error) {
	var doc messageDoc
	err := a.db.Collection("messages").FindOne(a.ctx,
		b.M{"roomid": roomId, "author": userId, "msgid": msgId}).Decode(&doc)
	if err == mdb.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
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
	var doc pathDataDoc
	err := a.db.Collection("pathdata").FindOne(a.ctx, b.M{"_id": path}).Decode(&doc)
	if err == mdb.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
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
	_, err := a.db.Collection("pathdata").ReplaceOne(a.ctx,
		b.M{"_id": pd.Path},
		&pathDataDoc{
			Path:      pd.Path,
			RoomId:    pd.RoomId,
			Content:   pd.Content,
			UpdatedAt: pd.UpdatedAt,
		},
		mdbopts.Replace().SetUpsert(true))
	return err
}

func init() {
	store.RegisterAdapter(&adapter{})
}
