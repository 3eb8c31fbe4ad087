package redis

import (
	"fmt"

	"github.com/mcoot/studentdesk/internal/model"
)

// Key prefix for all application data
const keyPrefix = "studentdesk"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// userSeqKey returns the Redis key for the user id counter
func userSeqKey() string {
	return fmt.Sprintf("%s:seq:user", keyPrefix)
}

// studentKey returns the Redis key for a Student
func studentKey(id model.StudentID) string {
	return fmt.Sprintf("%s:student:%d", keyPrefix, id)
}

// studentsIndexKey returns the Redis key for the ZSET of student ids, scored by id
func studentsIndexKey() string {
	return fmt.Sprintf("%s:idx:students", keyPrefix)
}

// studentSeqKey returns the Redis key for the student id counter
func studentSeqKey() string {
	return fmt.Sprintf("%s:seq:student", keyPrefix)
}
