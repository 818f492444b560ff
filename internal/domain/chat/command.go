package chat

// Command is one state-changing request travelling from a transport
// goroutine to the worker pool. Commands that need a synchronous result
// carry a one-shot buffered reply channel; the worker sends and moves on
// without waiting for the receiver.
type Command interface {
	name() string
}

// OpenCommand announces a new connection. The worker allocates an id,
// publishes the session and replies with the id.
type OpenCommand struct {
	Session *Session
	Reply   chan int64
}

// CloseCommand retires a connection. It is idempotent.
type CloseCommand struct {
	ConnectionID int64
}

// LoginCommand authenticates a connection against an existing account.
type LoginCommand struct {
	ConnectionID int64
	Username     string
	Password     string
	Reply        chan bool
}

// RegisterCommand creates an account and binds it to the connection.
type RegisterCommand struct {
	ConnectionID int64
	Username     string
	Password     string
	Reply        chan bool
}

// SendMessageCommand broadcasts a chat message from a bound connection to
// every other bound connection in proximity.
type SendMessageCommand struct {
	ConnectionID int64
	Msg          string
}

// UpdatePositionCommand overwrites the position of the connection's user.
type UpdatePositionCommand struct {
	ConnectionID int64
	Lat          float64
	Lon          float64
}

func (OpenCommand) name() string           { return "open" }
func (CloseCommand) name() string          { return "close" }
func (LoginCommand) name() string          { return "login" }
func (RegisterCommand) name() string       { return "register" }
func (SendMessageCommand) name() string    { return "send_message" }
func (UpdatePositionCommand) name() string { return "update_position" }
