package models

// Attachment is an uploaded object linked to at most one owner: a message,
// a document, or an announcement.
type Attachment struct {
	ID             int64  `json:"id,string"`
	MessageID      *int64 `json:"message_id,string,omitempty"`
	DocumentID     *int64 `json:"document_id,string,omitempty"`
	AnnouncementID *int64 `json:"announcement_id,string,omitempty"`
	Filename       string `json:"filename"`
	ContentType    string `json:"content_type"`
	Size           int64  `json:"size"`
	StorageKey     string `json:"-"`
	UploaderID     int64  `json:"uploader_id,string"`
	URL            string `json:"url,omitempty"`
}
