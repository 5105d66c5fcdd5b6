package redis

import "fmt"

// Key prefix for all registry data
const keyPrefix = "wordle"

// userKey returns the Redis key for a user's JSON record.
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// loginKey returns the Redis key for a user's logged-in flag. SETNX on this
// key is what makes login an atomic check-then-set.
func loginKey(username string) string {
	return fmt.Sprintf("%s:login:%s", keyPrefix, username)
}

// playedKey returns the Redis key for a user's played-this-round flag.
func playedKey(username string) string {
	return fmt.Sprintf("%s:played:%s", keyPrefix, username)
}

// usersSetKey returns the Redis key for the SET of all usernames.
func usersSetKey() string {
	return fmt.Sprintf("%s:users", keyPrefix)
}
