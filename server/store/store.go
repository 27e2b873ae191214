// Package store provides methods for registering and accessing database adapters.
package store

import (
	"encoding/json"
	"errors"

	"github.com/roomery/chat/server/store/adapter"
	"github.com/roomery/chat/server/store/types"
)

var adp adapter.Adapter
var availableAdapters = make(map[string]adapter.Adapter)

// Unique ID generator for server-assigned room ids.
var idGen types.IdGenerator

// Optional at-rest encryption of message content. Nil when no content key
// is configured.
var msgCipher *contentCipher

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.IdGenerator.
	IdKey []byte `json:"id_key"`
	// Optional AES key (16, 24 or 32 bytes) for encrypting message content
	// at rest. Empty disables encryption.
	ContentKey []byte `json:"content_key"`
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(workerId int, jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: db adapter is not specified. Please set `store_config.use_adapter` in the config")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	// Initialize snowflake.
	if workerId < 0 || workerId > 1023 {
		return errors.New("store: invalid worker ID")
	}

	if err := idGen.Init(uint(workerId), config.IdKey); err != nil {
		return errors.New("store: failed to init snowflake: " + err.Error())
	}

	var err error
	if msgCipher, err = newContentCipher(config.ContentKey); err != nil {
		return errors.New("store: failed to init content cipher: " + err.Error())
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// PersistentStorageInterface defines methods used for interaction with persistent storage.
type PersistentStorageInterface interface {
	Open(workerId int, jsonconf json.RawMessage) error
	Close() error
	IsOpen() bool
	GetAdapterName() string
	InitDb(jsonconf json.RawMessage, reset bool) error
	GetRoomId() string
}

// Store is the main object for interacting with persistent storage.
var Store PersistentStorageInterface

type storeObj struct{}

// Open initializes the persistence system. Adapter holds a connection pool
// for a database instance.
//   workerId - id of this process to be used to generate unique ids
//   jsonconf - configuration string
func (storeObj) Open(workerId int, jsonconf json.RawMessage) error {
	if err := openAdapter(workerId, jsonconf); err != nil {
		return err
	}

	return adp.CheckDbVersion()
}

// Close terminates connection to persistent storage.
func (storeObj) Close() error {
	if adp.IsOpen() {
		return adp.Close()
	}

	return nil
}

// IsOpen checks if persistent storage connection has been initialized.
func (storeObj) IsOpen() bool {
	if adp != nil {
		return adp.IsOpen()
	}

	return false
}

// GetAdapterName returns the name of the current adapter.
func (storeObj) GetAdapterName() string {
	if adp != nil {
		return adp.GetName()
	}

	return ""
}

// InitDb creates and configures a new database instance. If 'reset' is true
// it will first attempt to drop an existing database. If jsonconf is nil it
// will assume that the adapter is already open. If it's non-nil and the
// adapter is not open, it will use the config string to open the adapter first.
func (s storeObj) InitDb(jsonconf json.RawMessage, reset bool) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.CreateDb(reset)
}

// GetRoomId generates a unique id suitable for use as a room id.
func (storeObj) GetRoomId() string {
	return idGen.RoomId()
}

// RegisterAdapter makes a persistence adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// RoomsObjMapperInterface is an interface for persistence mapping of Room objects.
type RoomsObjMapperInterface interface {
	Create(creator, proposedId string, isPublic bool) (string, error)
	Get(roomId string) (*types.Room, error)
}

// RoomsObjMapper is a type to map persistence methods for Room objects.
type RoomsObjMapper struct{}

// Rooms is the anchor for storing/retrieving Room objects.
var Rooms RoomsObjMapperInterface

// Create inserts a new room. If proposedId is empty a server-generated id
// is used. Returns the id of the new room, or types.ErrDuplicate if the id
// is already taken. The uniqueness check is performed by the adapter
// atomically with the insert.
func (RoomsObjMapper) Create(creator, proposedId string, isPublic bool) (string, error) {
	id := proposedId
	if id == "" {
		id = idGen.RoomId()
	}
	if id == "" {
		return "", types.ErrNotInitialized
	}

	room := &types.Room{
		Id:        id,
		Public:    isPublic,
		CreatedBy: creator,
		CreatedAt: types.TimeNow(),
	}
	if err := adp.RoomCreate(room); err != nil {
		return "", err
	}
	return room.Id, nil
}

// Get loads a room by id. Returns (nil, nil) if the room does not exist.
func (RoomsObjMapper) Get(roomId string) (*types.Room, error) {
	return adp.RoomGet(roomId)
}

// MembersObjMapperInterface is an interface for persistence mapping of
// membership records.
type MembersObjMapperInterface interface {
	Get(roomId, userId string) (*types.Member, error)
	Upsert(roomId, userId string, membership types.Membership, content interface{}) error
}

// MembersObjMapper is a type to map persistence methods for membership records.
type MembersObjMapper struct{}

// Members is the anchor for storing/retrieving membership records.
var Members MembersObjMapperInterface

// Get reads the current membership record of a user in a room.
// Returns (nil, nil) if no record exists.
func (MembersObjMapper) Get(roomId, userId string) (*types.Member, error) {
	return adp.MemberGet(roomId, userId)
}

// Upsert overwrites the membership record for the (room, user) pair.
func (MembersObjMapper) Upsert(roomId, userId string, membership types.Membership, content interface{}) error {
	if !membership.IsValid() {
		return types.ErrMalformed
	}
	return adp.MemberUpsert(&types.Member{
		RoomId:     roomId,
		UserId:     userId,
		Membership: membership,
		Content:    content,
		UpdatedAt:  types.TimeNow(),
	})
}

// MessagesObjMapperInterface is an interface for persistence mapping of Message objects.
type MessagesObjMapperInterface interface {
	Save(roomId, from, msgId string, content interface{}) error
	Get(roomId, userId, msgId string) (*types.Message, error)
}

// MessagesObjMapper is a type to map persistence methods for Message objects.
type MessagesObjMapper struct{}

// Messages is the anchor for storing/retrieving Message objects.
var Messages MessagesObjMapperInterface

// Save stores a new message. Content is encrypted at rest when a content
// key is configured.
func (MessagesObjMapper) Save(roomId, from, msgId string, content interface{}) error {
	sealed, err := msgCipher.seal(content)
	if err != nil {
		return err
	}
	return adp.MessageSave(&types.Message{
		RoomId:    roomId,
		MsgId:     msgId,
		From:      from,
		Content:   sealed,
		CreatedAt: types.TimeNow(),
	})
}

// Get loads a single message. Returns (nil, nil) if no match exists.
func (MessagesObjMapper) Get(roomId, userId, msgId string) (*types.Message, error) {
	msg, err := adp.MessageGet(roomId, userId, msgId)
	if err != nil || msg == nil {
		return msg, err
	}
	if msg.Content, err = msgCipher.open(msg.Content); err != nil {
		return nil, err
	}
	return msg, nil
}

// PathDataObjMapperInterface is an interface for persistence mapping of
// path-addressed room data.
type PathDataObjMapperInterface interface {
	Get(path string) (*types.PathData, error)
	Upsert(roomId, path string, content interface{}) error
}

// PathDataObjMapper is a type to map persistence methods for path data.
type PathDataObjMapper struct{}

// PathData is the anchor for storing/retrieving path-addressed room data.
var PathData PathDataObjMapperInterface

// Get reads data stored under the given path. Returns (nil, nil) if the
// path holds no data.
func (PathDataObjMapper) Get(path string) (*types.PathData, error) {
	return adp.PathDataGet(path)
}

// Upsert overwrites the data stored under a path.
func (PathDataObjMapper) Upsert(roomId, path string, content interface{}) error {
	return adp.PathDataUpsert(&types.PathData{
		RoomId:    roomId,
		Path:      path,
		Content:   content,
		UpdatedAt: types.TimeNow(),
	})
}

func init() {
	Store = storeObj{}
	Rooms = RoomsObjMapper{}
	Members = MembersObjMapper{}
	Messages = MessagesObjMapper{}
	PathData = PathDataObjMapper{}
}
