package request

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}

type SendAttachmentRequest struct {
	Body         *string `json:"body,omitempty" validate:"omitempty,max=1000"`
	Filename     string  `json:"filename" validate:"required,max=255"`
	OriginalName string  `json:"original_name" validate:"required,max=255"`
	Mimetype     string  `json:"mimetype" validate:"required,max=100"`
	Size         int64   `json:"size" validate:"required,gt=0"`
	URL          string  `json:"url" validate:"required,url"`
}
