package models

// Document is the single persisted aggregate: notices newest first, students oldest first.
type Document struct {
	Notices  []Notice       `json:"notices"`
	Students []StudentLogin `json:"students"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() Document {
	return Document{Notices: []Notice{}, Students: []StudentLogin{}}
}

// Clone deep-copies the document so callers can mutate it without aliasing.
func (d Document) Clone() Document {
	out := Document{
		Notices:  make([]Notice, len(d.Notices)),
		Students: make([]StudentLogin, len(d.Students)),
	}
	copy(out.Notices, d.Notices)
	copy(out.Students, d.Students)
	return out
}

// Normalize replaces nil collections so the document always encodes as arrays.
func (d *Document) Normalize() {
	if d.Notices == nil {
		d.Notices = []Notice{}
	}
	if d.Students == nil {
		d.Students = []StudentLogin{}
	}
}

// MaxNoticeID returns the highest notice id, or zero for an empty collection.
func (d Document) MaxNoticeID() int64 {
	var max int64
	for _, n := range d.Notices {
		if n.ID > max {
			max = n.ID
		}
	}
	return max
}

// MaxStudentID returns the highest student login id, or zero for an empty collection.
func (d Document) MaxStudentID() int64 {
	var max int64
	for _, s := range d.Students {
		if s.ID > max {
			max = s.ID
		}
	}
	return max
}
