package domain

// Editor identifies who is making an edit and at what trust level
type Editor struct {
	ID       uint64 `json:"id"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
}
