package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		CmdTree string `json:"cmdtree"`
	} `json:"version"`
}

type SessionRequest struct {
	Player   string `json:"player"`
	Password string `json:"password,omitempty"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

type PositionModel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type SessionModel struct {
	URI      string        `json:"uri"`
	ID       string        `json:"id"`
	Player   string        `json:"player"`
	Group    string        `json:"group"`
	Mode     string        `json:"mode"`
	Location string        `json:"location"`
	Position PositionModel `json:"position"`
	Time     int64         `json:"time"`
	Speed    float32       `json:"speed"`
	Flying   bool          `json:"flying"`
	XP       int32         `json:"xp"`
	Class    string        `json:"class"`
	Team     string        `json:"team"`
	Created  string        `json:"created"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

type CommandModel struct {
	URI     string   `json:"uri"`
	ID      string   `json:"id"`
	Input   string   `json:"input"`
	Output  []string `json:"output"`
	Error   string   `json:"error,omitempty"`
	Created string   `json:"created"`
}
