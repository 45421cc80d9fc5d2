package entity

type UploadFileRequest struct {
	OrganizationID string
	FileName       string
	ContentType    string
	Content        []byte
}

type ListFilesResponse struct {
	Files []*SourceFile `json:"files"`
}
