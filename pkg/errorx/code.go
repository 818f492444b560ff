package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest      Code = 100001
	NotFound        Code = 100002
	Unauthenticated Code = 100003
	AlreadyExists   Code = 100004
	Unavailable     Code = 100005

	// Chat codes
	AlreadyBound    Code = 200001
	MessageTooLong  Code = 200002
	ConnectionLimit Code = 200003
)
