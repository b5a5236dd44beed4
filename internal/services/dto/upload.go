package dto

// UploadResponse - результат загрузки пруф-изображений
type UploadResponse struct {
	Paths []string `json:"paths"`
}

// ListResponse - стандартная обертка пагинированных списков
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}
