package models

import "strings"

// DeptAll targets a notice at every department.
const DeptAll = "ALL"

// Notice is a department-targeted announcement with an embedded document payload.
type Notice struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Dept  string `json:"dept"`
	Data  string `json:"data"`
	Type  string `json:"type"`
	Date  string `json:"date"`
	// BlobKey references externally stored payload bytes; Data is empty while it is set.
	BlobKey string `json:"blobKey,omitempty"`
}

// VisibleTo reports whether a student of dept should see the notice.
func (n Notice) VisibleTo(dept string) bool {
	return strings.EqualFold(n.Dept, DeptAll) || strings.EqualFold(n.Dept, dept)
}
