package models

// StudentLogin records one student sign-in. Records are append-only.
type StudentLogin struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Dept      string `json:"dept"`
	LoginTime string `json:"loginTime"`
}
