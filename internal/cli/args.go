package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/peerexam/internal/examdb"
)

// parseInt parses a decimal integer argument.
func parseInt(name, arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", name, arg), err)
	}
	return n, nil
}

// resolveUser maps a userid argument to a registered user. Commands that
// need a real user treat the nonexistent sentinel as a lookup miss.
func resolveUser(ctx context.Context, db *examdb.DB, arg string) (examdb.User, error) {
	userID, err := parseInt("userid", arg)
	if err != nil {
		return examdb.User{}, err
	}
	user, err := db.Users.Get(ctx, userID)
	if err != nil {
		return examdb.User{}, wrapDomainError("failed to get user", err)
	}
	if !user.Exists() {
		return examdb.User{}, wrapDomainError("failed to get user",
			&examdb.NotFoundError{Entity: "user", Key: "userid=" + arg})
	}
	return user, nil
}
