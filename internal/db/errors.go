package db

import "errors"

// ErrKeyNotFound is returned when a key is missing or has no expiry.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failing command for error context.
const (
	OpPing             = "PING"
	OpIncrBy           = "INCRBY"
	OpExpire           = "EXPIRE"
	OpTTL              = "PTTL"
	OpInsertOne        = "insertOne"
	OpFindOne          = "findOne"
	OpFind             = "find"
	OpCountDocuments   = "countDocuments"
	OpFindOneAndUpdate = "findOneAndUpdate"
	OpFindOneAndDelete = "findOneAndDelete"
	OpCreateIndexes    = "createIndexes"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
