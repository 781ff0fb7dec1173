package models

import "time"

// Draft is a saved editing session: a serialized favorites document under a
// user chosen name
type Draft struct {
	ID        int
	Name      string
	RootName  string
	Document  []byte
	UpdatedAt time.Time
}
