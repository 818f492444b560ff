package model

// ClientEvent is the envelope of inbound websocket payloads. The payload is
// externally tagged: exactly one field is present in the JSON object, e.g.
// {"Login":{"username":"u","password":"p"}}. Envelopes with no recognized
// tag are dropped by the transport.
type ClientEvent struct {
	Location    *LocationEvent    `json:"Location,omitempty"`
	Login       *CredentialsEvent `json:"Login,omitempty"`
	Register    *CredentialsEvent `json:"Register,omitempty"`
	SendMessage *SendMessageEvent `json:"SendMessage,omitempty"`
}

type LocationEvent struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type CredentialsEvent struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SendMessageEvent struct {
	Msg string `json:"msg"`
}

// ServerEvent is the envelope of outbound websocket payloads, tagged the
// same way as ClientEvent.
type ServerEvent struct {
	LoginResponse    *StatusResponse `json:"LoginResponse,omitempty"`
	RegisterResponse *StatusResponse `json:"RegisterResponse,omitempty"`
	Message          *MessageEvent   `json:"Message,omitempty"`
	Error            *ErrorEvent     `json:"Error,omitempty"`
}

type StatusResponse struct {
	Status bool `json:"status"`
}

type MessageEvent struct {
	Username string `json:"username"`
	Msg      string `json:"msg"`
}

type ErrorEvent struct {
	Reason string `json:"reason"`
}
