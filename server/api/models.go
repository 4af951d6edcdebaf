package api

// LoginRequest is the body of a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login or token creation.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// UserModel is the JSON representation of a dao.User.
type UserModel struct {
	URI            string `json:"uri,omitempty"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout_time,omitempty"`
	LastLoginTime  string `json:"last_login_time,omitempty"`
}

// UpdatableField is one field in an update request. Update is true if the
// client wants to set it to Value; false means leave the existing value
// alone. This lets a PATCH-style update distinguish "set to empty string"
// from "do not touch".
type UpdatableField struct {
	Update bool   `json:"u"`
	Value  string `json:"v"`
}

// UserUpdateRequest is the body of a partial user update request.
type UserUpdateRequest struct {
	ID       UpdatableField `json:"id"`
	Username UpdatableField `json:"username"`
	Email    UpdatableField `json:"email"`
	Role     UpdatableField `json:"role"`
	Password UpdatableField `json:"password"`
}

// InfoModel describes the running service for unauthenticated discovery.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Module string `json:"module"`
	} `json:"version"`
}

// SessionModel is the JSON representation of a parsing session. It never
// includes the serialized parser state itself, only metadata about it.
type SessionModel struct {
	URI        string `json:"uri,omitempty"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Created    string `json:"created"`
	LastUpdate string `json:"last_update"`
	Done       bool   `json:"done"`
}

// ChunkRequest is the body posted to feed more input bytes to a session's
// parser.
type ChunkRequest struct {
	// Data holds the chunk to feed, exactly as received; it is not base64
	// encoded; callers must send valid UTF-8/whatever encoding the parser
	// has detected or been configured with, carried losslessly through JSON
	// by round-tripping through Go's string type.
	Data string `json:"data"`

	// Finish indicates this is the final chunk of the document; the parser
	// will require a well-formed end-of-document after consuming it.
	Finish bool `json:"finish"`
}

// ChunkResponse reports what feeding a chunk to a session produced.
type ChunkResponse struct {
	Session     SessionModel       `json:"session"`
	Productions []ProductionModel  `json:"productions"`
	RestBuffer  int                `json:"rest_buffer_len"`
	Error       string             `json:"error,omitempty"`
}

// ProductionModel is the JSON representation of an xml.Production.
type ProductionModel struct {
	Kind string `json:"kind"`

	Name  string      `json:"name,omitempty"`
	Attrs []AttrModel `json:"attrs,omitempty"`

	Text string `json:"text,omitempty"`

	Target string `json:"target,omitempty"`
	Data   string `json:"data,omitempty"`

	DoctypeName string `json:"doctype_name,omitempty"`
}

// AttrModel is the JSON representation of an xml.Attr.
type AttrModel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AuditModel is the JSON representation of a dao.AuditEntry.
type AuditModel struct {
	ID             string `json:"id"`
	SessionID      string `json:"session_id"`
	Created        string `json:"created"`
	BytesConsumed  int    `json:"bytes_consumed"`
	ProductionsOut int    `json:"productions_out"`
	Error          string `json:"error,omitempty"`
}
