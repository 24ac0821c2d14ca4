package dto

// CreateNoticeRequest is the admin upload payload.
type CreateNoticeRequest struct {
	Title string `json:"title" form:"title" validate:"required"`
	Dept  string `json:"dept" form:"dept"`
	Data  string `json:"data" form:"data" validate:"required"`
	Type  string `json:"type" form:"type"`
	Date  string `json:"date" form:"date"`
}

// NoticeFilter narrows the notice listing.
type NoticeFilter struct {
	// Dept keeps notices for this department plus ALL; empty keeps everything.
	Dept string `form:"dept"`
}
