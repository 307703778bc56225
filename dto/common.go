package dto

// Page là kết quả danh sách có phân trang
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Normalize áp giá trị mặc định cho page/limit
func Normalize(page, limit int) (int, int) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
