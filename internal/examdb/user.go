package examdb

import (
	"context"

	"github.com/roach88/peerexam/internal/queryir"
	"github.com/roach88/peerexam/internal/record"
	"github.com/roach88/peerexam/internal/store"
)

// PrivLevel is a user's privilege level.
type PrivLevel string

const (
	// PrivNonexistent marks the sentinel returned for unknown users.
	// It is never stored.
	PrivNonexistent PrivLevel = "nonexistent"
	PrivRegular     PrivLevel = "regular"
	PrivPrivileged  PrivLevel = "privileged"
)

// User is a registered participant, or the sentinel for an unknown userid.
type User struct {
	// ID is the surrogate id. Zero on the sentinel.
	ID        int64     `json:"id"`
	UserID    int64     `json:"userid"`
	PrivLevel PrivLevel `json:"privlevel"`
	// Username is never empty on a registered user; the sentinel's is "".
	Username  string    `json:"username"`
}

// IsPrivileged reports whether the user holds the privileged level.
func (u User) IsPrivileged() bool {
	return u.PrivLevel == PrivPrivileged
}

// Exists reports whether u was read from storage rather than being the
// nonexistent sentinel.
func (u User) Exists() bool {
	return u.PrivLevel != PrivNonexistent
}

type userPayload struct {
	PrivLevel PrivLevel `validate:"oneof=regular privileged"`
	Username  string    `validate:"required"`
}

var userKind = entityKind[int64, User]{
	name:   "user",
	table:  "users",
	onMiss: SentinelOnMiss,
	key: func(userID int64) record.Fields {
		return record.Fields{"userid": record.Int(userID)}
	},
	decode: decodeUser,
	sentinel: func(userID int64) User {
		return User{UserID: userID, PrivLevel: PrivNonexistent}
	},
}

func decodeUser(row record.Row) (User, error) {
	userID, err := row.Fields.Int("userid")
	if err != nil {
		return User{}, err
	}
	priv, err := row.Fields.String("privlevel")
	if err != nil {
		return User{}, err
	}
	name, err := row.Fields.String("username")
	if err != nil {
		return User{}, err
	}
	return User{ID: row.ID, UserID: userID, PrivLevel: PrivLevel(priv), Username: name}, nil
}

// Users is the user registry.
type Users struct {
	st store.Store
}

// Get returns the user with userID. An unknown userID is not an error: the
// result is the sentinel with PrivNonexistent, an empty Username and ID 0.
func (r *Users) Get(ctx context.Context, userID int64) (User, error) {
	return userKind.lookup(ctx, r.st, userID)
}

// Put creates the user or overwrites its privilege level and name. The name
// must not be empty and is stored in NFC.
func (r *Users) Put(ctx context.Context, userID int64, priv PrivLevel, username string) (User, error) {
	if err := check(userKind.name, userPayload{PrivLevel: priv, Username: username}); err != nil {
		return User{}, err
	}
	return userKind.upsert(ctx, r.st, userID, record.Fields{
		"privlevel": record.String(priv),
		"username":  record.String(normText(username)),
	})
}

// List returns every registered user in creation order.
func (r *Users) List(ctx context.Context) ([]User, error) {
	return userKind.list(ctx, r.st, queryir.All())
}
